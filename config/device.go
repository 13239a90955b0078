package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DeviceConfig holds the configuration of the ecovekt command-line client.
type DeviceConfig struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token,omitempty"`
	DataDir   string `yaml:"data_dir"`
}

// DefaultDeviceConfigPath returns ~/.config/ecovekt/config.yaml.
func DefaultDeviceConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ecovekt", "config.yaml")
}

// defaultDeviceConfig returns the values used when nothing is configured.
func defaultDeviceConfig() *DeviceConfig {
	dataDir := filepath.Join(".", ".ecovekt")
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "ecovekt")
	}
	return &DeviceConfig{
		ServerURL: "http://localhost:8080",
		DataDir:   dataDir,
	}
}

// LoadDevice reads the YAML file at path (a missing file is not an error)
// and applies ECOVEKT_SERVER_URL, ECOVEKT_TOKEN and ECOVEKT_DATA_DIR on top.
func LoadDevice(path string) (*DeviceConfig, error) {
	cfg := defaultDeviceConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ServerURL = getEnv("ECOVEKT_SERVER_URL", cfg.ServerURL)
	cfg.Token = getEnv("ECOVEKT_TOKEN", cfg.Token)
	cfg.DataDir = getEnv("ECOVEKT_DATA_DIR", cfg.DataDir)
	return cfg, nil
}

// SaveDevice writes cfg to path, creating the directory when needed.
// The file holds a token, so it is only readable by the owner.
func SaveDevice(path string, cfg *DeviceConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
