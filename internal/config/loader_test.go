package config

import (
	"os"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "0.0.0.0"
  port: 9999
pipeline:
  cache:
    similarity_threshold: 0.9
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.Cache.SimilarityThreshold != 0.9 {
		t.Errorf("expected similarity threshold 0.9, got %f", cfg.Pipeline.Cache.SimilarityThreshold)
	}
}

func TestLoadFile_Tiers(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-tiers-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
tiers:
  tier1:
    provider: openai
    model: gpt-4o-mini
    max_tokens: 512
    temperature: 0.3
    upgradeable: true
  tier2:
    provider: openai
    model: gpt-4o
    max_tokens: 1024
    temperature: 0.5
    upgradeable: true
  tier3:
    provider: anthropic
    model: claude-sonnet
    max_tokens: 2048
    temperature: 0.5
    upgradeable: false
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var tc TiersConfig
	if err := LoadFile(tmpFile.Name(), &tc); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	s, ok := tc.ForTier("tier1")
	if !ok {
		t.Fatal("expected tier1 to be present")
	}
	if !s.Upgradeable {
		t.Error("expected tier1 to be upgradeable")
	}
	s, ok = tc.ForTier("tier3")
	if !ok {
		t.Fatal("expected tier3 to be present")
	}
	if s.Upgradeable {
		t.Error("expected tier3 to not be upgradeable")
	}
	if _, ok := tc.ForTier("tier9"); ok {
		t.Error("expected unknown tier to be absent")
	}
}

func TestLoadFile_WithEnvVars(t *testing.T) {
	os.Setenv("TEST_PORT", "7777")
	defer os.Unsetenv("TEST_PORT")

	tmpFile, err := os.CreateTemp("", "test-config-env-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "${TEST_HOST:127.0.0.1}"
  port: ${TEST_PORT}
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1 (default), got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected port 7777, got %d", cfg.Server.Port)
	}
}
