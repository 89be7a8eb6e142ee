package api

import (
	"io"
	"net/http"

	cfgstore "github.com/dragonwatch/dragonwatch/config/store"
	cfgvars "github.com/dragonwatch/dragonwatch/config/vars"
	"github.com/dragonwatch/dragonwatch/encoding/json"
	"github.com/dragonwatch/dragonwatch/http/api"

	"github.com/labstack/echo/v4"
)

// The ConfigHandler type provides handler functions for reading and manipulating
// the current config.
type ConfigHandler struct {
	store cfgstore.Store
}

// NewConfig return a new Config type. You have to provide a valid config store.
func NewConfig(store cfgstore.Store) *ConfigHandler {
	return &ConfigHandler{
		store: store,
	}
}

// Get returns the currently active configuration
// @Summary Retrieve the currently active configuration
// @Description Retrieve the currently active configuration. The bot token is disguised.
// @ID config-get
// @Produce json
// @Success 200 {object} api.Config
// @Router /api/v1/config [get]
func (p *ConfigHandler) Get(c echo.Context) error {
	cfg := p.store.GetActive()

	apicfg := api.Config{}
	apicfg.Unmarshal(cfg, p.store.Location())

	return c.JSON(http.StatusOK, apicfg)
}

// Set will set the given configuration as new active configuration
// @Summary Update the current configuration
// @Description Update the current configuration by providing a complete or partial configuration. Fields that are not provided will not be changed. The changes are applied after a reload.
// @ID config-set
// @Accept json
// @Produce json
// @Param config body api.SetConfig true "Configuration"
// @Success 200 {string} string
// @Failure 400 {object} api.Error
// @Failure 409 {object} api.ConfigError
// @Router /api/v1/config [put]
func (p *ConfigHandler) Set(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return api.Err(http.StatusBadRequest, "Invalid JSON", "%s", err)
	}

	cfg := p.store.Get()

	setConfig := api.NewSetConfig(cfg)

	if err := json.Unmarshal(body, &setConfig); err != nil {
		return api.Err(http.StatusBadRequest, "Invalid JSON", "%s", err)
	}

	if err := c.Validate(setConfig); err != nil {
		return api.Err(http.StatusBadRequest, "Invalid JSON", "%s", err)
	}

	setConfig.MergeTo(cfg)

	// Validate a copy that has the environment variables merged in. If this
	// configuration is valid, the un-merged one is stored to disk.

	mergedConfig := cfg.Clone()
	mergedConfig.Merge(nil)

	mergedConfig.Validate(true)
	if mergedConfig.HasErrors() {
		errors := api.ConfigError{}

		mergedConfig.Messages(func(level string, v cfgvars.Variable, message string) {
			if level != "error" {
				return
			}

			errors[v.Name] = append(errors[v.Name], message)
		})

		return c.JSON(http.StatusConflict, errors)
	}

	if err := p.store.Set(cfg); err != nil {
		return api.Err(http.StatusBadRequest, "Failed to store config", "%s", err)
	}

	if err := p.store.SetActive(mergedConfig); err != nil {
		return api.Err(http.StatusBadRequest, "Failed to activate config", "%s", err)
	}

	return c.JSON(http.StatusOK, "OK")
}

// Reload will reload the stored configuration
// @Summary Reload the stored configuration
// @Description Reload the stored configuration. This will restart the watch loop.
// @ID config-reload
// @Produce json
// @Success 200 {string} string
// @Failure 500 {object} api.Error
// @Router /api/v1/config/reload [get]
func (p *ConfigHandler) Reload(c echo.Context) error {
	if err := p.store.Reload(); err != nil {
		return api.Err(http.StatusInternalServerError, "", "%s", err)
	}

	return c.JSON(http.StatusOK, "OK")
}
