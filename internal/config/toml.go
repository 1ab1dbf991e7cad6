// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Interview InterviewConfig `toml:"interview"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
}

// InterviewConfig maps interview run settings.
type InterviewConfig struct {
	Bank *string `toml:"bank"`
	Seed *int64  `toml:"seed"`
	DB   *string `toml:"db"`
}

// DashboardConfig maps interviewer dashboard defaults.
type DashboardConfig struct {
	Sort   *string `toml:"sort"`
	Order  *string `toml:"order"`
	Status *string `toml:"status"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultFileContents is written when the config command creates a new file.
const DefaultFileContents = `# tuiview configuration

[interview]
# bank = "/path/to/questions.yaml"
# seed = 42
# db = "/path/to/tuiview.db"

[dashboard]
# sort = "date"      # name, score, date
# order = "desc"     # asc, desc
# status = "all"     # all, not-started, in-progress, completed

[log]
# level = "info"
# file = "/path/to/tuiview.log"
`
