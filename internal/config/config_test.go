package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Decompressor != "command" || c.Layout != "named" || c.Aligner != "exec" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"layout":"positional","aligner":"ebi","limit":3,"keep_last_record":true}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Layout != "positional" || c.Aligner != "ebi" || c.Limit != 3 || !c.KeepLastRecord {
		t.Fatalf("config not applied: %+v", c)
	}
	if c.Reference != "spike.txt" {
		t.Fatalf("expected default reference to survive, got %q", c.Reference)
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadEnvFillsEmail(t *testing.T) {
	t.Setenv(EmailEnv, "")
	os.Unsetenv(EmailEnv)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(EmailEnv+"=lab@example.org\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := Defaults()
	if err := c.LoadEnv(envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "lab@example.org" {
		t.Fatalf("expected email from .env, got %q", c.Email)
	}
}

func TestLoadEnvKeepsConfiguredEmail(t *testing.T) {
	t.Setenv(EmailEnv, "env@example.org")
	c := Defaults()
	c.Email = "cfg@example.org"
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "cfg@example.org" {
		t.Fatalf("expected configured email to win, got %q", c.Email)
	}
}
