// Package timeouts holds the per-call deadlines for database and outbound
// work. Handlers already run under the router's request timeout; these
// bound the individual calls inside a request (session user fetch, health
// ping) and inside background jobs so a stuck Mongo call cannot pin a
// worker for the whole request window.
package timeouts

import (
	"sync"
	"time"
)

// Defaults, used unless Configure overrides them.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping bounds liveness and readiness probes.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short bounds single-document reads, such as the per-request session
// user fetch.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium bounds multi-document reads and writes.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long bounds background job sweeps and email sends.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config carries override values for Configure. Zero fields keep the
// current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure overrides the deadlines. Safe to call concurrently with reads.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores the defaults. Test helper.
func Reset() {
	Configure(Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
	})
}
