package operation

import (
	"time"
)

const (
	DefaultApiURL          = "https://uploadthing.com/api"
	DefaultReadConcurrency = 16
	DefaultConfigTimeoutMs = 0
)

// buildDurationByMs build time.Duration by ms, if ms <= 0, return defaultValue
func buildDurationByMs(ms int, defaultValue int) time.Duration {
	if ms <= 0 {
		return time.Duration(defaultValue) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// readConcurrency caps the number of parallel readers for n files.
func readConcurrency(configured, n int) int {
	if configured <= 0 {
		configured = DefaultReadConcurrency
	}
	if configured > n {
		return n
	}
	return configured
}
