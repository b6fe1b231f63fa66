package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DeviceConfig describes one relay unit for the CLI tools.
type DeviceConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Relays   int    `toml:"relays"`
	Timeout  string `toml:"timeout"`
}

// LoadDeviceConfig reads a TOML device file, applying defaults for port and
// relay count.
func LoadDeviceConfig(path string) (DeviceConfig, error) {
	var cfg DeviceConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DeviceConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = 9100
	}
	if cfg.Relays == 0 {
		cfg.Relays = 3
	}
	if err := ValidateDeviceConfig(cfg); err != nil {
		return DeviceConfig{}, err
	}
	return cfg, nil
}

// ValidateDeviceConfig rejects configs the device would never accept.
func ValidateDeviceConfig(cfg DeviceConfig) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("device config missing host")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("device config port out of range: %d", cfg.Port)
	}
	if cfg.Relays < 1 {
		return fmt.Errorf("device config relays must be positive: %d", cfg.Relays)
	}
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return fmt.Errorf("device config timeout invalid: %w", err)
		}
	}
	return nil
}

// ParseTimeout returns the configured timeout, or zero when unset so the
// session defaults apply.
func (c DeviceConfig) ParseTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}
