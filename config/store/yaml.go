package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dragonwatch/dragonwatch/config"

	"gopkg.in/yaml.v3"
)

type yamlStore struct {
	path string

	data map[string]*config.Config
	lock sync.RWMutex

	reloadFn func()
}

// NewYAML will read the YAML config file from the given path. If the path doesn't exist, a default
// config file will be written to that path. Unknown keys in the file are an error. The returned
// Store can be used to retrieve or write the config.
func NewYAML(path string, reloadFn func()) (Store, error) {
	c := &yamlStore{
		data:     make(map[string]*config.Config),
		reloadFn: reloadFn,
	}

	if len(path) == 0 {
		path = "notify.yaml"
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to determine absolute path of '%s': %w", path, err)
	}

	c.path = path

	cfg := config.New()

	exists, err := c.load(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML from '%s': %w", path, err)
	}

	if !exists {
		if err := c.store(cfg); err != nil {
			return nil, fmt.Errorf("failed to write YAML to '%s': %w", path, err)
		}
	}

	c.data["base"] = cfg

	return c, nil
}

func (c *yamlStore) Location() string {
	return c.path
}

func (c *yamlStore) Get() *config.Config {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.data["base"].Clone()
}

func (c *yamlStore) Set(d *config.Config) error {
	d.Validate(true)

	if d.HasErrors() {
		return config.ErrInvalid
	}

	data := d.Clone()

	if err := c.store(data); err != nil {
		return fmt.Errorf("failed to write YAML to '%s': %w", c.path, err)
	}

	c.lock.Lock()
	c.data["base"] = data
	c.lock.Unlock()

	return nil
}

func (c *yamlStore) GetActive() *config.Config {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if x, ok := c.data["merged"]; ok {
		return x.Clone()
	}

	return c.data["base"].Clone()
}

func (c *yamlStore) SetActive(d *config.Config) error {
	d.Validate(true)

	if d.HasErrors() {
		return config.ErrInvalid
	}

	c.lock.Lock()
	c.data["merged"] = d.Clone()
	c.lock.Unlock()

	return nil
}

func (c *yamlStore) Reload() error {
	cfg := config.New()

	if _, err := c.load(cfg); err != nil {
		return fmt.Errorf("failed to read YAML from '%s': %w", c.path, err)
	}

	c.lock.Lock()
	c.data["base"] = cfg
	delete(c.data, "merged")
	c.lock.Unlock()

	if c.reloadFn != nil {
		c.reloadFn()
	}

	return nil
}

// load decodes the file into cfg. It returns false if the file doesn't exist.
func (c *yamlStore) load(cfg *config.Config) (bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return true, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg.Data); err != nil {
		return true, err
	}

	return true, nil
}

func (c *yamlStore) store(cfg *config.Config) error {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(&cfg.Data); err != nil {
		return err
	}

	if err := encoder.Close(); err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}

	tmpfile := c.path + ".tmp"

	if err := os.WriteFile(tmpfile, buf.Bytes(), 0600); err != nil {
		return err
	}

	return os.Rename(tmpfile, c.path)
}
