package operation

import (
	"os"
	"sync"
)

const (
	UPCLI_CONFIG_ENV = "UPCLI_CONFIG"
)

var (
	globalConfig        *Config
	globalConfigRwLock  sync.RWMutex
	onceForGlobalConfig sync.Once
)

// CurrentConfig 返回 UPCLI_CONFIG 指向的配置，未设置时返回 nil。
// 文件变化后会自动重新加载。
func CurrentConfig() *Config {
	onceForGlobalConfig.Do(initCurrentConfigOnce)

	globalConfigRwLock.RLock()
	defer globalConfigRwLock.RUnlock()
	return globalConfig
}

func initCurrentConfigOnce() {
	config, envVal, err := loadConfigFromEnvironmentVariable()
	if err != nil {
		elog.Warn("Init config from env failed", envVal, err)
		return
	}

	globalConfigRwLock.Lock()
	defer globalConfigRwLock.Unlock()
	globalConfig = config
	ensureWatchesOrUnwatchAll(config)
}

func reloadCurrentConfig() {
	config, envVal, err := loadConfigFromEnvironmentVariable()
	if err != nil {
		// keep serving the last good config
		elog.Warn("Reload config from env failed", envVal, err)
		return
	}

	globalConfigRwLock.Lock()
	defer globalConfigRwLock.Unlock()
	globalConfig = config
	elog.Info("Reload config from env", envVal)
	ensureWatchesOrUnwatchAll(config)
}

func loadConfigFromEnvironmentVariable() (config *Config, envVal string, err error) {
	if envVal = os.Getenv(UPCLI_CONFIG_ENV); envVal != "" {
		config, err = Load(envVal)
	}
	return
}

func ensureWatchesOrUnwatchAll(config *Config) {
	var paths []string
	if config != nil {
		paths = config.getOriginalPaths()
	}
	if err := globalWatcher().ensureWatches(paths); err != nil {
		elog.Warn("watch config failed:", err)
	}
}
