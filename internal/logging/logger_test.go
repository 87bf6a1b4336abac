package logging

import (
	"os"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, "info")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	// Write once; just ensuring no panic / basic functionality.
	log.Info("test_message_from_logging_test")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	log, err := NewLogger(t.TempDir(), "not-a-level")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()
	if !log.Core().Enabled(0) { // 0 == InfoLevel
		t.Fatalf("expected info level enabled on fallback")
	}
}
