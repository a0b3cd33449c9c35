package main

import (
	"flag"
	"io"
	"testing"

	"spikealign/internal/config"
)

func parseFlags(t *testing.T, args ...string) (*cliFlags, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("spikealign", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f, fs
}

func TestFlagsTurnConfigValuesOff(t *testing.T) {
	cfg := config.Defaults()
	cfg.KeepLastRecord = true
	cfg.FailFast = true
	cfg.Limit = 5

	f, fs := parseFlags(t, "-keep-last=false", "-fail-fast=false", "-limit=0", "in")
	f.apply(&cfg, fs)

	if cfg.KeepLastRecord || cfg.FailFast || cfg.Limit != 0 {
		t.Fatalf("expected explicit flags to override config, got keep_last=%v fail_fast=%v limit=%d", cfg.KeepLastRecord, cfg.FailFast, cfg.Limit)
	}
	if cfg.InputDir != "in" {
		t.Fatalf("expected input dir from argument, got %q", cfg.InputDir)
	}
}

func TestUnsetFlagsKeepConfigValues(t *testing.T) {
	cfg := config.Defaults()
	cfg.KeepLastRecord = true
	cfg.Limit = 5
	cfg.Reference = "custom.txt"

	f, fs := parseFlags(t, "-aligner", "ebi")
	f.apply(&cfg, fs)

	if !cfg.KeepLastRecord || cfg.Limit != 5 || cfg.Reference != "custom.txt" {
		t.Fatalf("expected config values kept, got %+v", cfg)
	}
	if cfg.Aligner != "ebi" {
		t.Fatalf("expected aligner ebi, got %q", cfg.Aligner)
	}
}
