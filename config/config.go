package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	mu sync.Mutex `yaml:"-"`

	BaseURL      string `yaml:"base_url"`
	DatabasePath string `yaml:"database_path"`

	Web      WebConfig      `yaml:"web"`
	Driver   DriverConfig   `yaml:"driver"`
	Tracking TrackingConfig `yaml:"tracking"`
	Admin    AdminConfig    `yaml:"admin"`
}

// WebConfig defines the web server settings.
type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
}

// DriverConfig defines driver device authentication.
type DriverConfig struct {
	AuthSecret string `yaml:"auth_secret"`
}

// TrackingConfig defines live-tracking stream behavior.
type TrackingConfig struct {
	KeepaliveInterval time.Duration `yaml:"keepalive_interval"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"` // 0 disables the idle bound
	SinkBuffer        int           `yaml:"sink_buffer"`
}

// AdminConfig defines the seeded admin account.
type AdminConfig struct {
	Username        string `yaml:"username"`
	InitialPassword string `yaml:"initial_password"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		BaseURL:      "http://localhost:8090",
		DatabasePath: "caterhub.db",
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Tracking: TrackingConfig{
			KeepaliveInterval: 30 * time.Second,
			IdleTimeout:       0,
			SinkBuffer:        64,
		},
		Admin: AdminConfig{
			Username: "admin",
		},
	}
}

// Load reads a YAML config file. If the file doesn't exist, defaults are used.
// Secrets may be supplied or overridden through the environment:
// DRIVER_AUTH_SECRET, SESSION_SECRET, ADMIN_PASSWORD, BASE_URL.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DRIVER_AUTH_SECRET"); v != "" {
		c.Driver.AuthSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Web.SessionSecret = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.InitialPassword = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Lock acquires the config mutex for multi-step mutations.
func (c *Config) Lock() { c.mu.Lock() }

// Unlock releases the config mutex.
func (c *Config) Unlock() { c.mu.Unlock() }
