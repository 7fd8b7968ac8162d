// internal/config/config.go
//
// Runtime configuration for the server.
// Values come from command-line flags first, then environment variables (which
// main may have populated from a .env file), then defaults.

package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	WordsFile      string // empty = embedded default pool
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
}

// Load parses args (normally os.Args[1:]) and fills the rest from the environment.
func Load(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("hangman", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "p", "", "HTTP port")
	fs.StringVar(&cfg.DBPath, "db", "", "SQLite database path")
	fs.StringVar(&cfg.WordsFile, "words", "", "Word pool file (default: embedded)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "zerolog level")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Port = orEnv(cfg.Port, "PORT", "5175")
	cfg.DBPath = orEnv(cfg.DBPath, "DB_PATH", "./data/hangman.db")
	cfg.WordsFile = orEnv(cfg.WordsFile, "WORDS_FILE", "")
	cfg.LogLevel = orEnv(cfg.LogLevel, "LOG_LEVEL", "info")
	cfg.CookieName = getEnv("COOKIE_NAME", "hangman_token")
	cfg.ClientOrigin = getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	cfg.DailySalt = getEnv("DAILY_SALT", "local_dev_salt")
	cfg.Production = os.Getenv("APP_ENV") == "production"

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if cfg.Production {
			return Config{}, errors.New("JWT_SECRET required in production")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}

	cfg.JWTExpiresDays = 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid JWT_EXPIRES_DAYS env variable")
		}
		cfg.JWTExpiresDays = n
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, errors.New("invalid port")
	}
	return cfg, nil
}

// orEnv returns flagVal if set, else env k, else def.
func orEnv(flagVal, k, def string) string {
	if flagVal != "" {
		return flagVal
	}
	return getEnv(k, def)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
