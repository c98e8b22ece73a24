package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	serverconfig "antaracc/internal/config"
	"antaracc/internal/domain/cc"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".antaracc"
	defaultTimeout       = 30 * time.Second
)

type Config struct {
	Env           string
	ServerAddress string
	LogLevel      string
	ConfigDir     string
	EnableTLS     bool
	Timeout       time.Duration
	// Modules нужны офлайн-командам: разбору opret и расчету адресов.
	Modules cc.Modules
}

// Load читает config.yaml из cfgFile или ~/.antaracc, затем .env
// и переменные окружения. Окружение перекрывает файл.
func Load(cfgFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir := filepath.Join(home, defaultConfigDir)

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()

	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("enable_tls", false)
	v.SetDefault("request_timeout", defaultTimeout)
	serverconfig.SetModuleDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	modules, err := serverconfig.Modules(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:           v.GetString("app_env"),
		ServerAddress: v.GetString("server_address"),
		LogLevel:      v.GetString("log_level"),
		ConfigDir:     configDir,
		EnableTLS:     v.GetBool("enable_tls"),
		Timeout:       v.GetDuration("request_timeout"),
		Modules:       modules,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("request_timeout должен быть положительным")
	}
	return nil
}

// BaseURL - адрес API с учетом TLS.
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
