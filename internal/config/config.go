package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env         string
	ServerPort  string
	DBDriver    string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	LogLevel    string
	SwaggerHost string
	ResetDB     bool
}

// IsDev reports whether the process runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

// Load reads an optional .env file and builds Config from the environment.
// Every missing required variable is reported in a single error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment)),
		ServerPort:  getEnv("PORT", "3000"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		ResetDB:     os.Getenv("RESET_DB") == "true",
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else {
		db := dbParams{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_DATABASE"),
		}
		missing = append(missing, db.missing()...)
		if len(missing) == 0 {
			dsn, err := db.dsn(cfg.DBDriver)
			if err != nil {
				return nil, err
			}
			cfg.DatabaseDSN = dsn
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

type dbParams struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (p dbParams) missing() []string {
	var out []string
	for _, kv := range []struct{ key, val string }{
		{"DB_HOST", p.Host},
		{"DB_PORT", p.Port},
		{"DB_USERNAME", p.User},
		{"DB_PASSWORD", p.Password},
		{"DB_DATABASE", p.Name},
	} {
		if kv.val == "" {
			out = append(out, kv.key)
		}
	}
	return out
}

func (p dbParams) dsn(driver string) (string, error) {
	switch driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			p.Host, p.Port, p.User, p.Password, p.Name), nil
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			p.User, p.Password, p.Host, p.Port, p.Name), nil
	case "sqlite":
		// DB_DATABASE doubles as the file name.
		return p.Name, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
