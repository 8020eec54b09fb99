package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("NOMINA_LOGO_PATH", "")
	cfg, info, err := LoadFromFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if info.Found || info.PortSpecified {
		t.Fatalf("info=%+v", info)
	}
	def := DefaultConfig()
	if cfg.Server.Port != def.Server.Port || cfg.Output.Format != "pdf" || cfg.Locale.Language != "en" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.History.Enabled {
		t.Fatalf("history must be disabled by default")
	}
	if cfg.Assets.LogoPath != "" {
		t.Fatalf("logo=%q, want built-in", cfg.Assets.LogoPath)
	}
}

func TestLoadFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
port = 8080

[output]
dir = "/srv/nomina"
format = "xlsx"

[locale]
language = "es-MX"

[history]
enabled = true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, info, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if !info.Found || !info.PortSpecified {
		t.Fatalf("info=%+v", info)
	}
	if cfg.Server.Port != 8080 || cfg.Output.Dir != "/srv/nomina" || cfg.Output.Format != "xlsx" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Locale.Language != "es-MX" || !cfg.History.Enabled {
		t.Fatalf("cfg=%+v", cfg)
	}
	// 未出现的键保持默认值
	if !cfg.Server.OpenBrowser || cfg.Data.DataDir != "data" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromFileEnvOverrides(t *testing.T) {
	t.Setenv("NOMINA_LOGO_PATH", "/opt/logo.png")
	t.Setenv("NOMINA_LAYOUT_PATH", "/opt/layout.yaml")
	t.Setenv("NOMINA_HISTORY", "true")

	cfg, _, err := LoadFromFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Assets.LogoPath != "/opt/logo.png" || cfg.Layout.Path != "/opt/layout.yaml" || !cfg.History.Enabled {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadFromFileInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Output.Dir = "/tmp/salida"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, _, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Output.Dir != "/tmp/salida" {
		t.Fatalf("Output.Dir=%q", got.Output.Dir)
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")
	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if st, err := os.Stat(filepath.Join(dir, "uploads")); err != nil || !st.IsDir() {
		t.Fatalf("uploads dir missing: %v", err)
	}
	if HistoryDBPath(dir) != filepath.Join(dir, "nomina.db") {
		t.Fatalf("HistoryDBPath=%s", HistoryDBPath(dir))
	}
}
