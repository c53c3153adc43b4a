// Package config loads process configuration the way
// internal/jvp/config/config.go does: a Config value built once in New(),
// populated from environment variables with hardcoded defaults. It is
// extended here with an optional YAML file overlay (gopkg.in/yaml.v3) for
// settings too structured for a single env var: the IP allow-list, extra
// server-reserved keys, and driver selection.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the composition root needs to build a Server.
type Config struct {
	// ListenAddr is the LCD protocol port (spec section 6: "loopback-only
	// by default"). Configurable via LCDD_LISTEN_ADDR.
	ListenAddr string

	// AllowList restricts which remote IPs may complete the handshake,
	// beyond whatever ListenAddr itself already restricts (spec section
	// 6: "IP allow-list configurability"). Entries are bare IPs, no CIDR.
	AllowList []string

	// StatusAddr is the separate read-only diagnostics HTTP port (spec
	// section D), independent of ListenAddr so a status API failure never
	// touches the protocol path. Empty disables the status API entirely.
	StatusAddr string

	// DriverName selects which driver.Driver implementation to load.
	// "text" is the only backend this module ships; anything else is a
	// configuration error the composition root reports at startup.
	DriverName string

	// DataDir holds the metrics sqlite file, mirroring
	// internal/jvp/config.Config.DataDir's "~/.local/share/<app>" default.
	DataDir string

	// ExtraKeys are additional key names reserved server-owned at startup,
	// on top of proto.NavigationKeys (spec section 4.7).
	ExtraKeys []string
}

// fileOverlay is the shape of the optional YAML config file; only the
// settings too structured for an env var live here.
type fileOverlay struct {
	AllowList  []string `yaml:"allow_list"`
	DriverName string   `yaml:"driver"`
	ExtraKeys  []string `yaml:"extra_keys"`
}

// New builds a Config from environment variables, then overlays an
// optional YAML file named by LCDD_CONFIG_FILE if set.
func New() (*Config, error) {
	cfg := &Config{
		ListenAddr: getListenAddr(),
		AllowList:  []string{"127.0.0.1"},
		StatusAddr: getStatusAddr(),
		DriverName: getDriverName(),
		DataDir:    getDataDir(),
	}

	if path := os.Getenv("LCDD_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if len(overlay.AllowList) > 0 {
		c.AllowList = overlay.AllowList
	}
	if overlay.DriverName != "" {
		c.DriverName = overlay.DriverName
	}
	if len(overlay.ExtraKeys) > 0 {
		c.ExtraKeys = overlay.ExtraKeys
	}
	return nil
}

// getListenAddr reads LCDD_LISTEN_ADDR, defaulting to loopback:13666 (spec
// section 6).
func getListenAddr() string {
	if addr := os.Getenv("LCDD_LISTEN_ADDR"); addr != "" {
		return addr
	}
	return "127.0.0.1:13666"
}

// getStatusAddr reads LCDD_STATUS_ADDR, defaulting to loopback:8116 (spec
// section D).
func getStatusAddr() string {
	if addr := os.Getenv("LCDD_STATUS_ADDR"); addr != "" {
		return addr
	}
	return "127.0.0.1:8116"
}

func getDriverName() string {
	if name := os.Getenv("LCDD_DRIVER"); name != "" {
		return name
	}
	return "text"
}

// getDataDir mirrors getDataDir in internal/jvp/config/config.go.
func getDataDir() string {
	if dir := os.Getenv("LCDD_DATA_DIR"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "lcdd")
	}
	return filepath.Join(".", "data")
}
