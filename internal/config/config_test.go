package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvPort, EnvLogLevel, EnvDataDir, EnvFFprobe, EnvExportCmd, EnvConfigFile} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %s, want %s", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.FFprobePath() != DefaultFFprobe {
		t.Errorf("FFprobePath() = %s, want %s", cfg.FFprobePath(), DefaultFFprobe)
	}
	if cfg.ExportCommand() != "" {
		t.Errorf("ExportCommand() = %q, want empty", cfg.ExportCommand())
	}
	if filepath.Base(cfg.DBPath()) != DBFilename {
		t.Errorf("DBPath() = %s, want basename %s", cfg.DBPath(), DBFilename)
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvDataDir, "/var/lib/draftcut")
	t.Setenv(EnvFFprobe, "/opt/ffmpeg/bin/ffprobe")
	t.Setenv(EnvExportCmd, "/opt/editor/export")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %s, want debug", cfg.LogLevel())
	}
	if cfg.DataDir() != "/var/lib/draftcut" {
		t.Errorf("DataDir() = %s", cfg.DataDir())
	}
	if cfg.DBPath() != filepath.Join("/var/lib/draftcut", DBFilename) {
		t.Errorf("DBPath() = %s", cfg.DBPath())
	}
	if cfg.FFprobePath() != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("FFprobePath() = %s", cfg.FFprobePath())
	}
	if cfg.ExportCommand() != "/opt/editor/export" {
		t.Errorf("ExportCommand() = %s", cfg.ExportCommand())
	}
}

func TestNew_InvalidPort(t *testing.T) {
	clearEnv(t)

	for _, port := range []string{"notaport", "0", "70000"} {
		t.Setenv(EnvPort, port)
		if _, err := New(); err == nil {
			t.Errorf("New() with port %q succeeded, want error", port)
		}
	}
}

func TestNew_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 8800\nlog_level: warn\nffprobe: /usr/local/bin/ffprobe\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != 8800 {
		t.Errorf("Port() = %d, want 8800", cfg.Port())
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("LogLevel() = %s, want warn", cfg.LogLevel())
	}
	if cfg.FFprobePath() != "/usr/local/bin/ffprobe" {
		t.Errorf("FFprobePath() = %s", cfg.FFprobePath())
	}
}

func TestNew_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 8800\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvPort, "9100")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port() = %d, want env override 9100", cfg.Port())
	}
}

func TestNew_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := New(); err == nil {
		t.Error("New() with missing config file succeeded, want error")
	}
}
