package store

import (
	"os"
	"path/filepath"
)

// Location returns the path to the config file. If no path is provided,
// different standard location will be probed:
// - ./notify.yaml
// - os.UserConfigDir() + /dragonwatch/notify.yaml
// - os.UserHomeDir() + /.config/dragonwatch/notify.yaml
// If the config doesn't exist in none of these locations, it will be assumed
// at ./notify.yaml
func Location(path string) string {
	if len(path) != 0 {
		return path
	}

	locations := []string{"notify.yaml"}

	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "dragonwatch", "notify.yaml"))
	}

	if dir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(dir, ".config", "dragonwatch", "notify.yaml"))
	}

	for _, location := range locations {
		info, err := os.Stat(location)
		if err != nil {
			continue
		}

		if info.IsDir() {
			continue
		}

		return location
	}

	return "notify.yaml"
}
