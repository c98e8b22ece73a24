package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"antaracc/internal/domain/cc"
	"antaracc/internal/domain/chain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Драйверы индекса транзакций.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
	Chain  chainConfig
}

type db struct {
	Driver      string `env:"DB_DRIVER" envDefault:"memory"`
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
	SQLitePath  string `env:"SQLITE_PATH"`
	Fixture     string `env:"LEDGER_FIXTURE"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type chainConfig struct {
	WalkCeiling int `env:"CHAIN_WALK_CEILING"`
	Modules     cc.Modules
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", "localhost:8080")
	v.SetDefault("db_driver", DriverMemory)
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("sqlite_path", "antaracc.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("chain_walk_ceiling", chain.DefaultCeiling)
	SetModuleDefaults(v)
}

// SetModuleDefaults задает eval-коды модулей по умолчанию.
// Используется и сервером, и клиентом.
func SetModuleDefaults(v *viper.Viper) {
	v.SetDefault("eval_tokens", cc.DefaultEvalTokens)
	v.SetDefault("eval_assets", cc.DefaultEvalAssets)
	v.SetDefault("eval_rogue", cc.DefaultEvalRogue)
	v.SetDefault("eval_agreements", cc.DefaultEvalAgreements)
	v.SetDefault("eval_tokentags", cc.DefaultEvalTokenTags)
}

// Modules читает EVAL_* и проверяет, что коды не пересекаются.
func Modules(v *viper.Viper) (cc.Modules, error) {
	modules := cc.Modules{}
	evals := []struct {
		key  string
		dest *uint8
	}{
		{"eval_tokens", &modules.Tokens},
		{"eval_assets", &modules.Assets},
		{"eval_rogue", &modules.Rogue},
		{"eval_agreements", &modules.Agreements},
		{"eval_tokentags", &modules.TokenTags},
	}
	for _, e := range evals {
		code, err := parseEvalCode(v.GetString(e.key))
		if err != nil {
			return cc.Modules{}, fmt.Errorf("%s: %w", strings.ToUpper(e.key), err)
		}
		*e.dest = code
	}
	if err := modules.Validate(); err != nil {
		return cc.Modules{}, err
	}
	return modules, nil
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	modules, err := Modules(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: v.GetString("app_env"),
		DB: db{
			Driver:      strings.ToLower(v.GetString("db_driver")),
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
			SQLitePath:  v.GetString("sqlite_path"),
			Fixture:     v.GetString("ledger_fixture"),
		},
		Server: server{RunAddress: v.GetString("run_address")},
		Logger: logger{LogLevel: v.GetString("log_level")},
		Chain: chainConfig{
			WalkCeiling: v.GetInt("chain_walk_ceiling"),
			Modules:     modules,
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	if c.Chain.WalkCeiling <= 0 {
		return fmt.Errorf("CHAIN_WALK_CEILING must be positive, got %d", c.Chain.WalkCeiling)
	}
	return nil
}

// parseEvalCode принимает десятичную или 0x-запись.
func parseEvalCode(s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid eval code %q", s)
	}
	return uint8(n), nil
}
