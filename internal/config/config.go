// Package config provides configuration for the draftcut agent. Values come
// from built-in defaults, then an optional YAML config file, then
// environment variable overrides, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = 8701
	DefaultLogLevel = "info"
	DefaultDataDir  = ".draftcut"
	DefaultFFprobe  = "ffprobe"

	EnvPort       = "DRAFTCUT_PORT"
	EnvLogLevel   = "DRAFTCUT_LOG_LEVEL"
	EnvDataDir    = "DRAFTCUT_DATA_DIR"
	EnvFFprobe    = "DRAFTCUT_FFPROBE"
	EnvExportCmd  = "DRAFTCUT_EXPORT_CMD"
	EnvConfigFile = "DRAFTCUT_CONFIG"

	// DBFilename is the agent database inside the data directory.
	DBFilename = "draftcut.db"
)

// Config defines the application configuration interface.
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	FFprobePath() string
	// ExportCommand is the external editor automation binary. Empty means
	// run with the stub exporter.
	ExportCommand() string
}

// fileConfig is the YAML config file shape.
type fileConfig struct {
	Port          int    `yaml:"port"`
	LogLevel      string `yaml:"log_level"`
	DataDir       string `yaml:"data_dir"`
	FFprobe       string `yaml:"ffprobe"`
	ExportCommand string `yaml:"export_cmd"`
}

// EnvConfig resolves configuration from file and environment.
type EnvConfig struct {
	port      int
	logLevel  string
	dataDir   string
	ffprobe   string
	exportCmd string
}

// New builds the effective configuration. The config file is read from
// DRAFTCUT_CONFIG when set; a missing file at that path is an error, since
// the operator asked for it explicitly.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
		ffprobe:  DefaultFFprobe,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}
	if fp := os.Getenv(EnvFFprobe); fp != "" {
		cfg.ffprobe = fp
	}
	if ec := os.Getenv(EnvExportCmd); ec != "" {
		cfg.exportCmd = ec
	}

	return cfg, nil
}

func (c *EnvConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		if fc.Port < 1 || fc.Port > 65535 {
			return fmt.Errorf("config file %s: port must be between 1 and 65535", path)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	if fc.FFprobe != "" {
		c.ffprobe = fc.FFprobe
	}
	if fc.ExportCommand != "" {
		c.exportCmd = fc.ExportCommand
	}
	return nil
}

func (c *EnvConfig) Port() int {
	return c.port
}

func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

func (c *EnvConfig) FFprobePath() string {
	return c.ffprobe
}

func (c *EnvConfig) ExportCommand() string {
	return c.exportCmd
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
