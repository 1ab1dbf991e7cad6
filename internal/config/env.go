package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted before the config file defaults.
const (
	EnvDB       = "TUIVIEW_DB"
	EnvLogLevel = "TUIVIEW_LOG_LEVEL"
	EnvLogFile  = "TUIVIEW_LOG_FILE"
)

// Env holds settings taken from the process environment. Unset variables
// are left empty.
type Env struct {
	DB       string
	LogLevel string
	LogFile  string
}

// LoadEnv loads a dotenv file, if present, without overriding variables that
// are already set, and returns the tuiview settings.
func LoadEnv(path string) (Env, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}
	return Env{
		DB:       os.Getenv(EnvDB),
		LogLevel: os.Getenv(EnvLogLevel),
		LogFile:  os.Getenv(EnvLogFile),
	}, nil
}
