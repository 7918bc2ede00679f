package config

import (
	"strings"
)

func (c *Config) normalize() error {
	c.MinimumCertainty = strings.ToLower(strings.TrimSpace(c.MinimumCertainty))
	if c.MinimumCertainty == "" {
		c.MinimumCertainty = defaultMinimumCertainty
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaultCacheBackend
	}
	if strings.TrimSpace(c.Cache.TTL) == "" {
		c.Cache.TTL = defaultCacheTTL
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return err
		}
		c.Cache.Dir = dir
	}
	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return err
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = defaultServerAddr
	}
	c.Server.ClientHeader = strings.TrimSpace(c.Server.ClientHeader)

	for i, name := range c.Extractors.Disabled {
		c.Extractors.Disabled[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return nil
}
