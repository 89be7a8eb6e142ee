package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dragonwatch/dragonwatch/config"
	"github.com/dragonwatch/dragonwatch/config/store"
	"github.com/dragonwatch/dragonwatch/http/api"
	"github.com/dragonwatch/dragonwatch/http/mock"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const configFile = `notify:
  list:
    - Daily
  bot_token: "123:abc"
  chat_id: "42"
launcher:
  enable: false
`

func getDummyConfigRouter(t *testing.T) (*echo.Echo, store.Store, *int) {
	path := filepath.Join(t.TempDir(), "notify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configFile), 0600))

	reloads := 0

	s, err := store.NewYAML(path, func() { reloads++ })
	require.NoError(t, err)

	router := mock.DummyEcho()

	handler := NewConfig(s)

	router.Add("GET", "/", handler.Get)
	router.Add("PUT", "/", handler.Set)
	router.Add("GET", "/reload", handler.Reload)

	return router, s, &reloads
}

func TestConfigGet(t *testing.T) {
	router, s, _ := getDummyConfigRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/", nil)

	data := response.Data.(map[string]interface{})
	require.Equal(t, s.Location(), data["location"])

	notify := data["config"].(map[string]interface{})["notify"].(map[string]interface{})
	require.Equal(t, api.Disguised, notify["bot_token"])
	require.Equal(t, "42", notify["chat_id"])
}

func TestConfigSet(t *testing.T) {
	router, s, _ := getDummyConfigRouter(t)

	body := `{"notify":{"list":["Daily","Weekly"],"bot_token":"***","chat_id":"42"},"launcher":{"enable":false,"schedule":"0 */4 * * *"}}`

	mock.Request(t, http.StatusOK, router, "PUT", "/", strings.NewReader(body))

	cfg := s.Get()
	require.Equal(t, []string{"Daily", "Weekly"}, cfg.Notify.List)
	require.Equal(t, "123:abc", cfg.Notify.BotToken)
	require.Equal(t, "0 */4 * * *", cfg.Launcher.Schedule)

	require.Equal(t, []string{"Daily", "Weekly"}, s.GetActive().Notify.List)
}

func TestConfigSetConflict(t *testing.T) {
	router, s, _ := getDummyConfigRouter(t)

	body := `{"notify":{"list":[]}}`

	response := mock.Request(t, http.StatusConflict, router, "PUT", "/", strings.NewReader(body))

	data := response.Data.(map[string]interface{})
	require.Contains(t, data, "notify.list")

	require.Equal(t, []string{"Daily"}, s.Get().Notify.List)
}

func TestConfigSetInvalidJSON(t *testing.T) {
	router, _, _ := getDummyConfigRouter(t)

	response := mock.Request(t, http.StatusBadRequest, router, "PUT", "/", strings.NewReader(`{"notify":`))

	require.Equal(t, "Invalid JSON", response.Message)
}

func TestConfigSetInvalidValue(t *testing.T) {
	router, _, _ := getDummyConfigRouter(t)

	body := `{"notify":{"list":["Daily"],"bot_token":"","chat_id":"42"}}`

	mock.Request(t, http.StatusBadRequest, router, "PUT", "/", strings.NewReader(body))
}

func TestConfigReload(t *testing.T) {
	router, s, reloads := getDummyConfigRouter(t)

	active := s.Get()
	active.Watch.Mode = config.ModeOnce
	require.NoError(t, s.SetActive(active))

	mock.Request(t, http.StatusOK, router, "GET", "/reload", nil)

	require.Equal(t, 1, *reloads)
	require.Equal(t, config.ModeCycle, s.GetActive().Watch.Mode)
}
