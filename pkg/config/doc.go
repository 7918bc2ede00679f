// Package config loads, normalizes, and validates upstreamer configuration.
//
// Settings live in a TOML file at $XDG_CONFIG_HOME/upstreamer/config.toml
// (~/.config/upstreamer/config.toml when XDG_CONFIG_HOME is unset). A
// missing file is not an error: [Default] values apply. Command-line flags
// override whatever the file sets.
package config
