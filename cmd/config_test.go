package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig with a missing file failed: %v", err)
	}
	if config.Data.Dir != ".fundscope" {
		t.Errorf("Data.Dir = %q", config.Data.Dir)
	}
	if config.Regulator.Months != 24 {
		t.Errorf("Regulator.Months = %d", config.Regulator.Months)
	}
	if config.LoaderTTL() != 5*time.Minute {
		t.Errorf("LoaderTTL = %v", config.LoaderTTL())
	}
	if config.RegulatorTTL() != 24*time.Hour {
		t.Errorf("RegulatorTTL = %v", config.RegulatorTTL())
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundscope.toml")
	content := `
[data]
dir = "/var/lib/fundscope"
ttl_minutes = 10

[regulator]
base_url = "https://mirror.example.com"
months = 6
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Data.Dir != "/var/lib/fundscope" {
		t.Errorf("Data.Dir = %q", config.Data.Dir)
	}
	if config.Regulator.BaseURL != "https://mirror.example.com" {
		t.Errorf("Regulator.BaseURL = %q", config.Regulator.BaseURL)
	}
	if config.Regulator.Months != 6 {
		t.Errorf("Regulator.Months = %d", config.Regulator.Months)
	}
	// Sections absent from the file keep their defaults.
	if config.Regulator.TTLHours != 24 {
		t.Errorf("Regulator.TTLHours = %d, defaults lost", config.Regulator.TTLHours)
	}
	if config.Custody.BaseURL == "" {
		t.Error("Custody.BaseURL default lost")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundscope.toml")
	if err := os.WriteFile(path, []byte("[data]\ndir = \"from-file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDataDir, "from-env")
	t.Setenv(EnvStatementsDir, "/srv/statements")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Data.Dir != "from-env" {
		t.Errorf("Data.Dir = %q, env override lost", config.Data.Dir)
	}
	if config.Statements.Dir != "/srv/statements" {
		t.Errorf("Statements.Dir = %q", config.Statements.Dir)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundscope.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted a malformed file")
	}
}
