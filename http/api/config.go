package api

import (
	"github.com/dragonwatch/dragonwatch/config"
)

// Disguised replaces secret values in a config that is returned by the API.
const Disguised = "***"

// ConfigData embeds config.Data
type ConfigData struct {
	config.Data
}

// Config is the config returned by the API
type Config struct {
	Location  string     `json:"location"`
	Config    ConfigData `json:"config"`
	Overrides []string   `json:"overrides"`
}

// Unmarshal converts a config.Config to a Config. The bot token is disguised.
func (c *Config) Unmarshal(cfg *config.Config, location string) {
	if cfg == nil {
		return
	}

	c.Location = location
	c.Config = ConfigData{cfg.Data}
	c.Overrides = cfg.Overrides()

	if c.Overrides == nil {
		c.Overrides = []string{}
	}

	if len(c.Config.Notify.BotToken) != 0 {
		c.Config.Notify.BotToken = Disguised
	}
}

// SetConfig embeds config.Data. It is used to send a new config to the server.
type SetConfig struct {
	config.Data
}

// NewSetConfig converts a config.Config into a SetConfig in order to prepopulate
// a SetConfig with the current values. The uploaded config can have missing fields that
// will be filled with the current values after unmarshalling the JSON.
func NewSetConfig(cfg *config.Config) SetConfig {
	data := SetConfig{
		cfg.Data,
	}

	return data
}

// MergeTo merges a sent config into a config.Config. A disguised bot token
// keeps the current one. The version and the ID can't be changed.
func (s *SetConfig) MergeTo(cfg *config.Config) {
	cfg.Name = s.Name

	token := cfg.Notify.BotToken

	cfg.Notify = s.Notify
	if s.Notify.BotToken == Disguised {
		cfg.Notify.BotToken = token
	}

	cfg.Log = s.Log
	cfg.Watch = s.Watch
	cfg.Launcher = s.Launcher
	cfg.API = s.API
	cfg.Debug = s.Debug
}

// ConfigError is used to return error messages when uploading a new config
type ConfigError map[string][]string
