package config

import "time"

const (
	defaultMinimumCertainty = "possible"
	defaultCacheBackend     = "file"
	defaultCacheTTL         = "720h"
	defaultServerAddr       = "127.0.0.1:8080"
	defaultClientHeader     = "X-Upstreamer-Client"
)

// DefaultTTL is the parsed form of the default cache TTL.
const DefaultTTL = 720 * time.Hour

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		MinimumCertainty: defaultMinimumCertainty,
		Cache: Cache{
			Backend: defaultCacheBackend,
			TTL:     defaultCacheTTL,
		},
		Server: Server{
			Addr:         defaultServerAddr,
			ClientHeader: defaultClientHeader,
		},
	}
}
