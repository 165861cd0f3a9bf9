package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/formulaengine/pkg/formula"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".formularc.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestConfig_LoadFillsDefaults(t *testing.T) {
	path := writeTempConfig(t, "locale: de-DE\n")

	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	filled := f.FillDefaults()

	if filled.ExecutionMode != ExecutionCompiled {
		t.Fatalf("expected default execution mode compiled, got %v", filled.ExecutionMode)
	}
	if filled.CacheEnabled == nil || !*filled.CacheEnabled {
		t.Fatal("expected cache_enabled to default true")
	}
	if filled.Locale != "de-DE" {
		t.Fatalf("expected locale de-DE to be preserved, got %q", filled.Locale)
	}
}

func TestConfig_ValidateRejectsBadExecutionMode(t *testing.T) {
	f := File{ExecutionMode: "quantum"}
	if err := f.Validate(); err == nil {
		t.Fatal("expected an error for an unknown execution_mode")
	}
}

func TestConfig_ValidateRejectsNegativeCacheCapacity(t *testing.T) {
	f := File{CacheCapacity: -1}
	if err := f.Validate(); err == nil {
		t.Fatal("expected an error for a negative cache_capacity")
	}
}

func TestConfig_OptionsProduceAWorkingEngine(t *testing.T) {
	f := File{ExecutionMode: ExecutionCompiled, CacheCapacity: 4}

	e, err := formula.New(f.Options()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := e.Calculate("2+3*4", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 14 {
		t.Fatalf("expected 14, got %v", got)
	}
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
