package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	uerrors "github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

//go:embed sample_config.toml
var sampleConfig string

const appName = "upstreamer"

// Cache configures the guess cache.
type Cache struct {
	Backend  string `toml:"backend"`
	TTL      string `toml:"ttl"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`

	ttl time.Duration
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr"`
	ClientHeader   string   `toml:"client_header"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Extractors selects which extractors run.
type Extractors struct {
	Disabled []string `toml:"disabled"`
}

// Config encapsulates all configuration values.
//
// Configuration sections:
//   - MinimumCertainty: record entries below it are dropped
//   - Cache: guess cache backend and location
//   - Server: API listen address, client scoping and CORS
//   - Extractors: extractors to skip
type Config struct {
	MinimumCertainty string     `toml:"minimum_certainty"`
	Cache            Cache      `toml:"cache"`
	Server           Server     `toml:"server"`
	Extractors       Extractors `toml:"extractors"`

	minimum upstream.Certainty
}

// Minimum returns the parsed minimum certainty. Valid after [Load].
func (c *Config) Minimum() upstream.Certainty { return c.minimum }

// CacheTTL returns the parsed cache TTL. Valid after [Load].
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.ttl == 0 {
		return DefaultTTL
	}
	return c.Cache.ttl
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, appName, "config.toml"), nil
	}
	return expandPath("~/.config/" + appName + "/config.toml")
}

// DefaultCacheDir returns the default file-cache directory.
func DefaultCacheDir() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CACHE_HOME")); base != "" {
		return filepath.Join(base, appName), nil
	}
	return expandPath("~/.cache/" + appName)
}

// Load locates, parses, and validates a configuration file. An empty path
// means the default location. It returns the config, the resolved path and
// whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, uerrors.Wrap(uerrors.ErrCodeInvalidConfig, err, "parse %s", resolvedPath)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, uerrors.New(uerrors.ErrCodeInvalidConfig, "%s is a directory", expanded)
	}
	return expanded, true, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
