// Package store persists the configuration and keeps the active one.
package store

import "github.com/dragonwatch/dragonwatch/config"

// Store is a store for the configuration data.
type Store interface {
	// Get returns a copy of the configuration as it is stored in the file.
	Get() *config.Config

	// Set validates and writes the configuration to the file. It doesn't
	// change the active configuration.
	Set(data *config.Config) error

	// GetActive returns a copy of the configuration the app is running
	// with. Without an active configuration the stored one is returned.
	GetActive() *config.Config

	// SetActive validates the configuration and keeps it in memory as
	// the one the app is running with.
	SetActive(data *config.Config) error

	// Reload reads the file again, forgets the active configuration and
	// calls the reload function given to the store.
	Reload() error

	// Location returns the absolute path of the configuration file.
	Location() string
}
