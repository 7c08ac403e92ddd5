package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"flexile-tracker/internal/logger"
)

// EnvPrefix namespaces every environment override, e.g. FLEXILE_SPLASH_DELAY=500ms.
// Keys come from split_words only: an envconfig name tag would also be looked
// up without the prefix.
const EnvPrefix = "FLEXILE"

type WindowConfig struct {
	Title  string  `yaml:"title" split_words:"true"`
	Width  float32 `yaml:"width" split_words:"true"`
	Height float32 `yaml:"height" split_words:"true"`
}

type Config struct {
	AppID   string `yaml:"app_id" split_words:"true"`
	AppName string `yaml:"app_name" split_words:"true"`

	SplashDelay  time.Duration `yaml:"splash_delay" split_words:"true"`
	CloseOnReady bool          `yaml:"close_on_ready" split_words:"true"`
	Splash       WindowConfig  `yaml:"splash" split_words:"true"`
	Main         WindowConfig  `yaml:"main" split_words:"true"`

	LogLevel string `yaml:"log_level" split_words:"true"`
	JSONLogs bool   `yaml:"json_logs" split_words:"true"`

	TasksEndpoint string        `yaml:"tasks_endpoint" split_words:"true"`
	HTTPTimeout   time.Duration `yaml:"http_timeout" split_words:"true"`
}

func Default() Config {
	return Config{
		AppID:       "com.flexile.timetracker",
		AppName:     "Flexile Time Tracker",
		SplashDelay: 2 * time.Second,
		Splash: WindowConfig{
			Title:  "Flexile",
			Width:  400,
			Height: 200,
		},
		Main: WindowConfig{
			Title:  "Flexile Time Tracker",
			Width:  480,
			Height: 640,
		},
		LogLevel:      "info",
		TasksEndpoint: "http://localhost:3000/tasks",
		HTTPTimeout:   10 * time.Second,
	}
}

// Load layers the optional YAML file and then the environment over Default.
// An empty path, or a path that does not exist, skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AppID == "" {
		return errors.New("config: app_id must not be empty")
	}
	if c.SplashDelay < 0 {
		return fmt.Errorf("config: splash_delay must not be negative, got %s", c.SplashDelay)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.Splash.Width <= 0 || c.Splash.Height <= 0 || c.Main.Width <= 0 || c.Main.Height <= 0 {
		return errors.New("config: window sizes must be positive")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	u, err := url.Parse(c.TasksEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: tasks_endpoint %q is not an absolute URL", c.TasksEndpoint)
	}
	return nil
}
