package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("RANDEX_TEST_STRING", " value ")
	t.Setenv("RANDEX_TEST_INT", "42")
	t.Setenv("RANDEX_TEST_BAD_INT", "forty")
	t.Setenv("RANDEX_TEST_BOOL", "true")
	t.Setenv("RANDEX_TEST_DURATION", "90s")
	t.Setenv("RANDEX_TEST_SECONDS", "30")
	t.Setenv("RANDEX_TEST_CSV", "a, b,,c ")

	if got := String("RANDEX_TEST_STRING", "def"); got != "value" {
		t.Fatalf("String = %q", got)
	}
	if got := String("RANDEX_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("String default = %q", got)
	}
	if got := Int("RANDEX_TEST_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := Int("RANDEX_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback = %d", got)
	}
	if !Bool("RANDEX_TEST_BOOL", false) {
		t.Fatalf("Bool = false")
	}
	if got := Duration("RANDEX_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("Duration = %s", got)
	}
	if got := Duration("RANDEX_TEST_SECONDS", time.Second); got != 30*time.Second {
		t.Fatalf("Duration seconds = %s", got)
	}
	if got := CSV("RANDEX_TEST_CSV", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("CSV = %v", got)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestLoadDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RANDEX_TEST_FROM_FILE=file\nRANDEX_TEST_PRESET=file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("RANDEX_TEST_PRESET", "env")
	t.Setenv("RANDEX_TEST_FROM_FILE", "")
	os.Unsetenv("RANDEX_TEST_FROM_FILE")

	if err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("RANDEX_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("RANDEX_TEST_PRESET"); got != "env" {
		t.Fatalf("environment must win, got %q", got)
	}
}

func TestLocationDefault(t *testing.T) {
	t.Setenv("BOOKING_TIMEZONE", "")
	loc, err := Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, loc)
	}
	t.Setenv("BOOKING_TIMEZONE", "Mars/Olympus")
	if _, err := Location(); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
