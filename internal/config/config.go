package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env             string `yaml:"env"`
	Port            int    `yaml:"port"`
	BaseURL         string `yaml:"base_url"`
	ReadTimeoutSec  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSec int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_seconds"`
}

func (a AppCfg) ReadTimeout() time.Duration  { return time.Duration(a.ReadTimeoutSec) * time.Second }
func (a AppCfg) WriteTimeout() time.Duration { return time.Duration(a.WriteTimeoutSec) * time.Second }
func (a AppCfg) IdleTimeout() time.Duration  { return time.Duration(a.IdleTimeoutSec) * time.Second }

type JWTCfg struct {
	AccessSecret     string `yaml:"access_secret"`
	RefreshSecret    string `yaml:"refresh_secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
	RefreshTTLDays   int    `yaml:"refresh_ttl_days"`
}

type MongoCfg struct {
	URI               string `yaml:"uri"`
	Database          string `yaml:"database"`
	UserCollection    string `yaml:"user_collection"`
	ProjectCollection string `yaml:"project_collection"`
}

type RedisCfg struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MailCfg struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type SecurityCfg struct {
	PasswordHashCost     int `yaml:"password_hash_cost"`
	ResetTokenTTLMinutes int `yaml:"reset_token_ttl_minutes"`
	LoginRateLimit       int `yaml:"login_rate_limit"`
	LoginRateWindowMin   int `yaml:"login_rate_window_minutes"`
	ForgotRateLimit      int `yaml:"forgot_rate_limit"`
	ForgotRateWindowMin  int `yaml:"forgot_rate_window_minutes"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	JWT      JWTCfg      `yaml:"jwt"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Redis    RedisCfg    `yaml:"redis"`
	Mail     MailCfg     `yaml:"mail"`
	Security SecurityCfg `yaml:"security"`
}

// AccessTTL returns the access token lifetime as a duration.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour
}

// ResetTokenTTL returns the password-reset token lifetime as a duration.
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.Security.ResetTokenTTLMinutes) * time.Minute
}

// Load reads yaml config from path, applies .env and environment overrides,
// fills defaults and validates required settings.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}
	overrideInt := func(env string, apply func(int)) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				apply(n)
			}
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_BASE_URL", func(v string) { cfg.App.BaseURL = v })
	overrideInt("APP_PORT", func(n int) { cfg.App.Port = n })
	override("JWT_ACCESS_SECRET", func(v string) { cfg.JWT.AccessSecret = v })
	override("JWT_REFRESH_SECRET", func(v string) { cfg.JWT.RefreshSecret = v })
	overrideInt("JWT_ACCESS_TTL_MINUTES", func(n int) { cfg.JWT.AccessTTLMinutes = n })
	overrideInt("JWT_REFRESH_TTL_DAYS", func(n int) { cfg.JWT.RefreshTTLDays = n })
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	overrideInt("REDIS_DB", func(n int) { cfg.Redis.DB = n })
	override("MAIL_API_KEY", func(v string) { cfg.Mail.APIKey = v })
	override("MAIL_FROM_EMAIL", func(v string) { cfg.Mail.FromEmail = v })
	override("MAIL_FROM_NAME", func(v string) { cfg.Mail.FromName = v })
	overrideInt("PASSWORD_HASH_COST", func(n int) { cfg.Security.PasswordHashCost = n })
	overrideInt("RESET_TOKEN_TTL_MINUTES", func(n int) { cfg.Security.ResetTokenTTLMinutes = n })

	applyDefaults(cfg)

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if cfg.JWT.AccessSecret == cfg.JWT.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.App.BaseURL == "" {
		return nil, errors.New("APP_BASE_URL is required")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ReadTimeoutSec == 0 {
		cfg.App.ReadTimeoutSec = 15
	}
	if cfg.App.WriteTimeoutSec == 0 {
		cfg.App.WriteTimeoutSec = 15
	}
	if cfg.App.IdleTimeoutSec == 0 {
		cfg.App.IdleTimeoutSec = 60
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 15
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 7
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "projecthub"
	}
	if cfg.Mongo.UserCollection == "" {
		cfg.Mongo.UserCollection = "users"
	}
	if cfg.Mongo.ProjectCollection == "" {
		cfg.Mongo.ProjectCollection = "projects"
	}
	if cfg.Security.PasswordHashCost == 0 {
		cfg.Security.PasswordHashCost = 10
	}
	if cfg.Security.ResetTokenTTLMinutes == 0 {
		cfg.Security.ResetTokenTTLMinutes = 10
	}
	if cfg.Security.LoginRateLimit == 0 {
		cfg.Security.LoginRateLimit = 10
	}
	if cfg.Security.LoginRateWindowMin == 0 {
		cfg.Security.LoginRateWindowMin = 15
	}
	if cfg.Security.ForgotRateLimit == 0 {
		cfg.Security.ForgotRateLimit = 3
	}
	if cfg.Security.ForgotRateWindowMin == 0 {
		cfg.Security.ForgotRateWindowMin = 60
	}
}
