package operation

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const DefaultConfigDialTimeoutMs = 10000

var (
	httpClientTransport *http.Transport
	onceForTransport    sync.Once
)

// getHttpClientTransport returns the transport shared by every upload client.
// The dial timeout of the first config wins.
func getHttpClientTransport(config *Config) *http.Transport {
	onceForTransport.Do(func() {
		dialer := net.Dialer{
			Timeout:   buildDurationByMs(config.DialTimeoutMs, DefaultConfigDialTimeoutMs),
			KeepAlive: 30 * time.Second,
		}
		httpClientTransport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	})
	return httpClientTransport
}
