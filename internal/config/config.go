package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables names
const (
	EnvListenAddr   = "LISTEN_ADDR"
	EnvCookieSecret = "COOKIE_SECRET"
	EnvDBType       = "DB_TYPE"
	EnvSQLitePath   = "SQLITE_PATH"
	EnvDBURL        = "DB_URL"
	EnvDBPort       = "DB_PORT"
	EnvDBName       = "DB_NAME"
	EnvDBUser       = "DB_USER"
	EnvDBPassword   = "DB_PASSWORD"
	EnvItemsPerPage = "ITEMS_PER_PAGE"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvGinMode      = "GIN_MODE"
)

// Database types
const (
	DBTypeMemory = "memory"
	DBTypeSQLite = "sqlite"
	DBTypeMongo  = "mongo"
)

type Database struct {
	Type       string
	SQLitePath string
	URL        string
	Port       string
	Name       string
	User       string
	Password   string
}

type Config struct {
	ListenAddr   string
	CookieSecret string
	ItemsPerPage int64
	LogLevel     zerolog.Level
	LogFormat    string
	GinMode      string
	Database     Database
}

// Load reads the configuration from the environment, after loading the given .env files if they exist
func Load(envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("could not load '%s': %w", envFile, err)
		}
	}

	cfg := &Config{
		ListenAddr:   getEnv(EnvListenAddr, ":8080"),
		CookieSecret: os.Getenv(EnvCookieSecret),
		LogFormat:    getEnv(EnvLogFormat, "json"),
		GinMode:      getEnv(EnvGinMode, "release"),
		Database: Database{
			Type:       strings.ToLower(getEnv(EnvDBType, DBTypeMemory)),
			SQLitePath: getEnv(EnvSQLitePath, "filmdelegate.db"),
			URL:        getEnv(EnvDBURL, "localhost"),
			Port:       getEnv(EnvDBPort, "27017"),
			Name:       getEnv(EnvDBName, "filmdelegate"),
			User:       os.Getenv(EnvDBUser),
			Password:   os.Getenv(EnvDBPassword),
		},
	}

	if cfg.CookieSecret == "" {
		return nil, fmt.Errorf("%s must be set", EnvCookieSecret)
	}

	itemsPerPage, err := strconv.ParseInt(getEnv(EnvItemsPerPage, "20"), 10, 64)
	if err != nil || itemsPerPage < 1 {
		return nil, fmt.Errorf("error getting %s: must be a positive integer", EnvItemsPerPage)
	}
	cfg.ItemsPerPage = itemsPerPage

	if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getEnv(EnvLogLevel, "info"))); err != nil {
		return nil, fmt.Errorf("error getting %s: %w", EnvLogLevel, err)
	}

	switch cfg.Database.Type {
	case DBTypeMemory, DBTypeSQLite, DBTypeMongo:
	default:
		return nil, fmt.Errorf("error getting %s: unknown database type '%s'", EnvDBType, cfg.Database.Type)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
