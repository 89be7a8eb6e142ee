package config

import "time"

// Data is the actual configuration data for the app. The layout of the
// notify section follows the notify.yaml file of earlier setups.
type Data struct {
	Version int64  `yaml:"version" json:"version"`
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Notify  struct {
		List     []string      `yaml:"list" json:"list"`
		BotToken string        `yaml:"bot_token" json:"bot_token" validate:"required_with=ChatID"`
		ChatID   string        `yaml:"chat_id" json:"chat_id" validate:"required_with=BotToken"`
		Proxy    string        `yaml:"proxy" json:"proxy"`
		APIURL   string        `yaml:"api_url" json:"api_url"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"notify" json:"notify"`
	Log struct {
		Level    string `yaml:"level" json:"level"`
		Format   string `yaml:"format" json:"format"`
		File     string `yaml:"file" json:"file"`
		MaxLines int    `yaml:"max_lines" json:"max_lines" validate:"gte=0"`
	} `yaml:"log" json:"log"`
	Watch struct {
		Mode         string        `yaml:"mode" json:"mode"`
		Processes    []string      `yaml:"processes" json:"processes" validate:"dive,required"`
		LogPaths     []string      `yaml:"log_paths" json:"log_paths" validate:"dive,required"`
		Window       time.Duration `yaml:"window" json:"window"`
		PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
		Backoff      struct {
			Initial time.Duration `yaml:"initial" json:"initial"`
			Max     time.Duration `yaml:"max" json:"max" validate:"gtefield=Initial"`
			Factor  float64       `yaml:"factor" json:"factor"`
		} `yaml:"backoff" json:"backoff"`
		MaxProbeErrors int `yaml:"max_probe_errors" json:"max_probe_errors" validate:"gte=1"`
	} `yaml:"watch" json:"watch"`
	Launcher struct {
		Enable       bool     `yaml:"enable" json:"enable"`
		Binary       string   `yaml:"binary" json:"binary"`
		Args         []string `yaml:"args" json:"args"`
		Dir          string   `yaml:"dir" json:"dir"`
		Schedule     string   `yaml:"schedule" json:"schedule" validate:"required"`
		RequireAdmin bool     `yaml:"require_admin" json:"require_admin"`
	} `yaml:"launcher" json:"launcher"`
	API struct {
		Enable  bool   `yaml:"enable" json:"enable"`
		Address string `yaml:"address" json:"address" validate:"required_if=Enable true"`
	} `yaml:"api" json:"api"`
	Debug struct {
		Gops         bool `yaml:"gops" json:"gops"`
		AutoMaxProcs bool `yaml:"auto_max_procs" json:"auto_max_procs"`
	} `yaml:"debug" json:"debug"`
}
