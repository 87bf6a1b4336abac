package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Smoke   SmokeConfig   `mapstructure:"smoke"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig points at the deployed model-serving stack.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SmokeConfig struct {
	FailFast      bool           `mapstructure:"fail_fast"`
	RetryAttempts int            `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration  `mapstructure:"retry_backoff"`
	MetricName    string         `mapstructure:"metric_name"`
	Classes       []string       `mapstructure:"classes"`
	Asset         string         `mapstructure:"asset"`
	ExpectedLabel string         `mapstructure:"expected_label"`
	Services      []ServiceCheck `mapstructure:"services"`
}

// ServiceCheck is one auxiliary reachability probe (dashboards etc.).
// Non-required services that are down are reported but never gate a deploy.
type ServiceCheck struct {
	Name     string        `mapstructure:"name"`
	URL      string        `mapstructure:"url"`
	Required bool          `mapstructure:"required"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type MonitorConfig struct {
	TestDir     string             `mapstructure:"test_dir"`
	MaxPerClass int                `mapstructure:"max_per_class"`
	Concurrency int                `mapstructure:"concurrency"`
	HistoryFile string             `mapstructure:"history_file"`
	DatabaseURL string             `mapstructure:"database_url"`
	Baseline    string             `mapstructure:"baseline"`
	Thresholds  map[string]float64 `mapstructure:"thresholds"`
}

type NotifyConfig struct {
	SlackWebhook string `mapstructure:"slack_webhook"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// Load reads mlopsgate.yaml (or the explicit path) plus MLOPSGATE_* env
// overrides into a validated Config. A missing config file is fine; the
// defaults describe the docker-compose stack of the exercise.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mlopsgate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("MLOPSGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("smoke.fail_fast", false)
	v.SetDefault("smoke.retry_attempts", 3)
	v.SetDefault("smoke.retry_backoff", "500ms")
	v.SetDefault("smoke.metric_name", "inference_requests_total")
	v.SetDefault("smoke.classes", []string{"cat", "dog"})
	v.SetDefault("smoke.expected_label", "cat")
	v.SetDefault("smoke.services", []map[string]any{
		{"name": "grafana", "url": "http://localhost:3000", "required": true, "timeout": "5s"},
		{"name": "prometheus", "url": "http://localhost:9090", "required": true, "timeout": "5s"},
		{"name": "mlflow", "url": "http://localhost:5000", "required": false, "timeout": "5s"},
	})

	v.SetDefault("monitor.test_dir", "data/processed/test")
	v.SetDefault("monitor.max_per_class", 0) // 0 = no cap
	v.SetDefault("monitor.concurrency", 4)
	v.SetDefault("monitor.history_file", "model_performance.jsonl")
	v.SetDefault("monitor.thresholds", map[string]float64{
		"accuracy":           0.05,
		"mean_confidence":    0.10,
		"per_class_accuracy": 0.10,
	})

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", "info")
}

func (c *Config) Validate() error {
	var err error

	if u, e := url.Parse(c.API.BaseURL); e != nil || u.Scheme == "" || u.Host == "" {
		err = multierr.Append(err, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout))
	}
	if c.Smoke.RetryAttempts < 1 {
		err = multierr.Append(err, fmt.Errorf("smoke.retry_attempts must be >= 1, got %d", c.Smoke.RetryAttempts))
	}
	if len(c.Smoke.Classes) == 0 {
		err = multierr.Append(err, errors.New("smoke.classes must not be empty"))
	}
	if c.Smoke.MetricName == "" {
		err = multierr.Append(err, errors.New("smoke.metric_name must not be empty"))
	}
	for i, s := range c.Smoke.Services {
		if s.Name == "" || s.URL == "" {
			err = multierr.Append(err, fmt.Errorf("smoke.services[%d]: name and url are required", i))
		}
	}
	if c.Monitor.Concurrency < 1 {
		err = multierr.Append(err, fmt.Errorf("monitor.concurrency must be >= 1, got %d", c.Monitor.Concurrency))
	}
	for metric, th := range c.Monitor.Thresholds {
		if th < 0 {
			err = multierr.Append(err, fmt.Errorf("monitor.thresholds[%s] must be >= 0, got %v", metric, th))
		}
	}
	return err
}
