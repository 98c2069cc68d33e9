package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// FileEnv names the variable that points at an optional TOML config file.
const FileEnv = "FLOWBIT_CONFIG"

type Config struct {
	Port            string `toml:"port"`
	DBPath          string `toml:"db_path"`
	Timezone        string `toml:"tz"`
	DefaultLanguage string `toml:"default_language"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	BcryptCost      int    `toml:"bcrypt_cost"`
}

func Defaults() Config {
	return Config{
		Port:            "8080",
		DBPath:          "data/flowbit.db",
		Timezone:        "UTC",
		DefaultLanguage: "es",
		LogLevel:        "info",
		LogFormat:       "text",
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// Load builds the runtime configuration. Later layers win: defaults, the TOML
// file named by FLOWBIT_CONFIG, a .env file in the working directory, then the
// process environment. Values from .env never replace variables that are
// already set.
func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.DBPath, "DB_PATH")
	overrideString(&cfg.Timezone, "TZ")
	overrideString(&cfg.DefaultLanguage, "DEFAULT_LANGUAGE")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.LogFormat, "LOG_FORMAT")

	if raw := strings.TrimSpace(os.Getenv("BCRYPT_COST")); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST must be an integer, got %q", raw)
		}
		cfg.BcryptCost = cost
	}
	return nil
}

func (cfg Config) Validate() error {
	var problems []error

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Errorf("port must be a number between 1 and 65535, got %q", cfg.Port))
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		problems = append(problems, errors.New("db_path must not be empty"))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Errorf("bcrypt_cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost))
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat))
	}

	return errors.Join(problems...)
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
