// Package config loads process-wide settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. ROSLYNPAD_CONFIG_DIR.
const Prefix = "ROSLYNPAD"

// Env holds environment-derived configuration. Everything here is optional;
// the zero value of each field selects the default behavior.
type Env struct {
	// ConfigDir overrides the directory holding config.toml and autosaves.
	// Default: ~/.roslynpad
	ConfigDir string `envconfig:"CONFIG_DIR"`
	// Dev enables development logging and opens the inspector on startup.
	Dev bool `envconfig:"DEV"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFile adds a file sink next to stderr when set.
	LogFile string `envconfig:"LOG_FILE"`
	// Autosave controls whether dirty documents are written on exit.
	Autosave bool `envconfig:"AUTOSAVE" default:"true"`
}

// Package-level hooks for testing.
var (
	getEnvVar  = os.Getenv
	getHomeDir = os.UserHomeDir
)

// Load reads Env from the process environment.
func Load() (*Env, error) {
	var env Env
	if err := envconfig.Process(Prefix, &env); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	// Wails sets WAILS_DEV for `wails dev` builds
	if getEnvVar("WAILS_DEV") != "" {
		env.Dev = true
	}

	if env.ConfigDir == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, err
		}
		env.ConfigDir = dir
	}

	return &env, nil
}

// SettingsPath returns the path of the user settings file.
func (e *Env) SettingsPath() string {
	return filepath.Join(e.ConfigDir, "config.toml")
}

// AutosaveDir returns the directory for documents autosaved on exit.
func (e *Env) AutosaveDir() string {
	return filepath.Join(e.ConfigDir, "autosave")
}

func defaultConfigDir() (string, error) {
	home, err := getHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".roslynpad"), nil
}
