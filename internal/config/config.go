package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServiceConfig addresses one remote service behind the API gateway.
type ServiceConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	SubscriptionKey string `mapstructure:"subscription_key"`
}

// APIConfig holds the three remote services.
type APIConfig struct {
	User          ServiceConfig `mapstructure:"user"`
	Transaction   ServiceConfig `mapstructure:"transaction"`
	Report        ServiceConfig `mapstructure:"report"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FetchPageSize int           `mapstructure:"fetch_page_size"`
}

// SessionConfig controls token persistence.
type SessionConfig struct {
	Backend        string        `mapstructure:"backend"`
	KeyringService string        `mapstructure:"keyring_service"`
	KeyringKey     string        `mapstructure:"keyring_key"`
	ClearOnLoad    bool          `mapstructure:"clear_on_load"`
	WatchInterval  time.Duration `mapstructure:"watch_interval"`
}

// CacheConfig holds the local transaction snapshot settings.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	PageSize       int    `mapstructure:"page_size"`
	TopN           int    `mapstructure:"top_n"`
}

// LogConfig holds log destination and verbosity.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("api.user.base_url", "https://your-user-service-api.example.com/api")
	v.SetDefault("api.user.subscription_key", "")
	v.SetDefault("api.transaction.base_url", "https://your-transaction-service-api.example.com/api")
	v.SetDefault("api.transaction.subscription_key", "")
	v.SetDefault("api.report.base_url", "https://your-report-service-api.example.com/api")
	v.SetDefault("api.report.subscription_key", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.fetch_page_size", 1000)
	v.SetDefault("session.backend", "keyring")
	v.SetDefault("session.keyring_service", "ExpenseTrackerApp")
	v.SetDefault("session.keyring_key", "jwt_token")
	v.SetDefault("session.clear_on_load", false)
	v.SetDefault("session.watch_interval", time.Minute)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", filepath.Join(home, ".local", "share", "expensetracker", "cache.db"))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.top_n", 3)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "expensetracker", "app.log"))
	v.SetDefault("log.level", "debug")
}

// Load reads configuration from .env, file and env. Env var overrides use prefix EXPENSETRACKER_.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("EXPENSETRACKER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "expensetracker"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("EXPENSETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.API.Report.SubscriptionKey == "" {
		c.API.Report.SubscriptionKey = c.API.Transaction.SubscriptionKey
	}
	return c, nil
}

// Validate collects every problem rather than stopping at the first.
func (c Config) Validate() error {
	var errs []string
	for name, svc := range map[string]ServiceConfig{
		"api.user":        c.API.User,
		"api.transaction": c.API.Transaction,
		"api.report":      c.API.Report,
	} {
		u, err := url.Parse(svc.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			errs = append(errs, fmt.Sprintf("%s.base_url %q must be an absolute http(s) URL", name, svc.BaseURL))
		}
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if c.API.FetchPageSize <= 0 {
		errs = append(errs, "api.fetch_page_size must be positive")
	}
	switch c.Session.Backend {
	case "keyring", "file":
	default:
		errs = append(errs, fmt.Sprintf("session.backend %q must be keyring or file", c.Session.Backend))
	}
	if c.Session.KeyringService == "" || c.Session.KeyringKey == "" {
		errs = append(errs, "session.keyring_service and session.keyring_key are required")
	}
	if c.Session.WatchInterval < time.Second {
		errs = append(errs, "session.watch_interval must be at least 1s")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		errs = append(errs, "cache.path required when cache is enabled")
	}
	if c.UI.PageSize <= 0 {
		errs = append(errs, "ui.page_size must be positive")
	}
	if c.UI.TopN <= 0 {
		errs = append(errs, "ui.top_n must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Path is the file Load reads and Save writes.
func Path() string {
	if p := os.Getenv("EXPENSETRACKER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "expensetracker", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
// Subscription keys are left out; keep them in the environment or .env.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.user.base_url", cfg.API.User.BaseURL)
	v.Set("api.transaction.base_url", cfg.API.Transaction.BaseURL)
	v.Set("api.report.base_url", cfg.API.Report.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.fetch_page_size", cfg.API.FetchPageSize)
	v.Set("session.backend", cfg.Session.Backend)
	v.Set("session.keyring_service", cfg.Session.KeyringService)
	v.Set("session.keyring_key", cfg.Session.KeyringKey)
	v.Set("session.clear_on_load", cfg.Session.ClearOnLoad)
	v.Set("session.watch_interval", cfg.Session.WatchInterval.String())
	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.path", cfg.Cache.Path)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.top_n", cfg.UI.TopN)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
