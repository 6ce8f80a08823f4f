// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config file keys.
const (
	keyDataDir  = "datadir"
	keyOwner    = "owner"
	keyLogLevel = "loglevel"
	keyLogFile  = "logfile"
	keyEventLog = "eventlog"
)

// EnvPrefix prefixes environment variables that override file values,
// e.g. NFTEXT_LOGLEVEL=debug.
const EnvPrefix = "NFTEXT"

// Config holds the settings of a hosted contract instance.
type Config struct {
	DataDir  string // directory holding the ledger database
	Owner    string // collection owner account ID
	LogLevel string // debug, info, warn or error
	LogFile  string // empty logs to stderr
	EventLog string // empty means DataDir/events.log
}

// DefaultDataDir returns ~/.nftext, or .nftext when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nftext"
	}
	return filepath.Join(home, ".nftext")
}

// DefaultConfig returns the default configuration. Owner has no default and
// must be set before the configuration validates.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// EventLogPath returns where emitted events are appended.
func (c Config) EventLogPath() string {
	if c.EventLog != "" {
		return c.EventLog
	}
	return filepath.Join(c.DataDir, "events.log")
}

// DBPath returns the ledger database path.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

// LoadConfig reads a "key = value" configuration file. Lines starting with
// '#' are comments, unknown keys are ignored and unset keys keep their
// defaults. NFTEXT_<KEY> environment variables take precedence over the file.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(keyDataDir, def.DataDir)
	v.SetDefault(keyOwner, def.Owner)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFile, def.LogFile)
	v.SetDefault(keyEventLog, def.EventLog)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	return Config{
		DataDir:  v.GetString(keyDataDir),
		Owner:    v.GetString(keyOwner),
		LogLevel: v.GetString(keyLogLevel),
		LogFile:  v.GetString(keyLogFile),
		EventLog: v.GetString(keyEventLog),
	}, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# NFT Extension Configuration\n\n")
	for _, kv := range [][2]string{
		{keyDataDir, cfg.DataDir},
		{keyOwner, cfg.Owner},
		{keyLogLevel, cfg.LogLevel},
		{keyLogFile, cfg.LogFile},
		{keyEventLog, cfg.EventLog},
	} {
		fmt.Fprintf(&b, "%s = %s\n", kv[0], kv[1])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
