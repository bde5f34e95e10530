package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  name: "CV Terminal"
server:
  telnet_port: 12323
game:
  hints_available: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site.Name != "CV Terminal" {
		t.Errorf("override lost: %q", cfg.Site.Name)
	}
	if cfg.Server.TelnetPort != 12323 || cfg.Game.HintsAvailable != 5 {
		t.Errorf("overrides lost: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.SSHPort != 2222 || cfg.Site.MaxNodes != 8 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Seed.RootSecret != "toor" {
		t.Errorf("seed default lost: %q", cfg.Seed.RootSecret)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"site:\n  max_nodes: 0\n",
		"server:\n  telnet_port: 70000\n",
		"server:\n  ssh_port: -1\n",
		"game:\n  hints_available: -2\n",
	}
	for _, c := range cases {
		if _, err := Load(writeConfig(t, c)); err == nil {
			t.Errorf("expected validation error for %q", c)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "site: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}
