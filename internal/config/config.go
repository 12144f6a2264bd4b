// Package config loads application settings from defaults, an optional
// config.toml in the working directory, and the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yukikurage/todo-list-api/internal/constants"
)

var (
	validDrivers   = []string{"mysql", "postgres", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	Port        int
	GinMode     string
	LogLevel    string
	CORSOrigins []string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	JWTSecret     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	FrontendURL   string

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string

	RateLimitRPS   int
	RateLimitBurst int
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "taskuser")
	v.SetDefault("database.password", "taskpassword")
	v.SetDefault("database.name", "todo_lists")
	v.SetDefault("database.path", "todo.db")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", constants.DefaultSessionTTL)

	v.SetDefault("reset.token_ttl", constants.DefaultResetTokenTTL)
	v.SetDefault("reset.frontend_url", "http://localhost:3000/reset-password")

	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@localhost")

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
}

// Load reads the configuration. A missing config.toml is not an error; every key
// can be set through the environment, e.g. DATABASE_DRIVER or JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        v.GetInt("server.port"),
		GinMode:     v.GetString("server.gin_mode"),
		LogLevel:    v.GetString("server.log_level"),
		CORSOrigins: v.GetStringSlice("server.cors_origins"),

		DBDriver:   v.GetString("database.driver"),
		DBHost:     v.GetString("database.host"),
		DBPort:     v.GetString("database.port"),
		DBUser:     v.GetString("database.user"),
		DBPassword: v.GetString("database.password"),
		DBName:     v.GetString("database.name"),
		DBPath:     v.GetString("database.path"),

		JWTSecret:     v.GetString("jwt.secret"),
		SessionTTL:    v.GetDuration("jwt.ttl"),
		ResetTokenTTL: v.GetDuration("reset.token_ttl"),
		FrontendURL:   v.GetString("reset.frontend_url"),

		MailHost:     v.GetString("mail.host"),
		MailPort:     v.GetInt("mail.port"),
		MailUsername: v.GetString("mail.username"),
		MailPassword: v.GetString("mail.password"),
		MailFrom:     v.GetString("mail.from"),

		RateLimitRPS:   v.GetInt("ratelimit.rps"),
		RateLimitBurst: v.GetInt("ratelimit.burst"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("invalid port provided")
	}
	if !slices.Contains(validDrivers, c.DBDriver) {
		return fmt.Errorf("invalid database driver %q", c.DBDriver)
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return errors.New("invalid log level provided")
	}
	if c.SessionTTL <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("jwt.secret must be set in release mode")
		}
		c.JWTSecret = "development-secret-change-me"
	}
	if c.FrontendURL == "" {
		return errors.New("reset.frontend_url can't be empty")
	}
	return nil
}
