package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	MaxTurns int `env:"COLOSSEUM_TEST_MAX_TURNS" envDefault:"100"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.MaxTurns != 100 {
		t.Fatalf("expected default max turns 100, got %d", cfg.MaxTurns)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("COLOSSEUM_TEST_MAX_TURNS", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
