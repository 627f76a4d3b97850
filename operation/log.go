package operation

import (
	log "github.com/service-sdk/upcli/x/log.v7"
)

// elog is embedded logger
var elog log.Ilog

// SetLogger 设置全局 Logger
func SetLogger(logger log.Ilog) {
	elog = logger
}

func init() {
	if elog == nil {
		elog = log.NewLogger()
	}
}
