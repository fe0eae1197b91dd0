package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the configuration file path. OSCAD_CONFIG wins,
// otherwise ~/.one-shot-cad/config.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv("OSCAD_CONFIG"); configPath != "" {
		return configPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".one-shot-cad", "config"), nil
}

// EnsureConfigDir ensures that the configuration directory exists.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}
