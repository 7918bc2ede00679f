package config

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/upstreamer/pkg/cache"
	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract/extractors"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Validate ensures the configuration is usable and caches parsed values.
func (c *Config) Validate() error {
	if err := c.validateCertainty(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateExtractors()
}

func (c *Config) validateCertainty() error {
	minimum, err := upstream.ParseCertainty(c.MinimumCertainty)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "minimum_certainty")
	}
	c.minimum = minimum
	return nil
}

func (c *Config) validateCache() error {
	if !slices.Contains(cache.Backends(), c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of %s, got %q",
			strings.Join(cache.Backends(), ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && strings.TrimSpace(c.Cache.RedisURL) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url must be set when cache.backend is redis")
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if ttl <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	c.Cache.ttl = ttl
	return nil
}

func (c *Config) validateExtractors() error {
	known := extractors.Names()
	for _, name := range c.Extractors.Disabled {
		if !slices.Contains(known, name) {
			return errors.New(errors.ErrCodeInvalidConfig, "extractors.disabled: unknown extractor %q (known: %s)",
				name, strings.Join(known, ", "))
		}
	}
	return nil
}
