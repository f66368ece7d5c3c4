package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ConfigFileName = "dbss.yaml"

// FindConfigFile tries to find the dbss config file in the current directory
// or any parent directory, falling back to the global config if needed
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %v", err)
	}
	if path, ok := findUpwards(dir); ok {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %v", err)
	}

	globalConfig := GlobalConfigPath(homeDir)
	if _, err := os.Stat(globalConfig); err == nil {
		return globalConfig, nil
	}

	return "", fmt.Errorf("no config file found in project or ~/.dbss/config.yaml")
}

func GlobalConfigPath(homeDir string) string {
	return filepath.Join(homeDir, ".dbss", "config.yaml")
}

func findUpwards(dir string) (string, bool) {
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %v", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}
