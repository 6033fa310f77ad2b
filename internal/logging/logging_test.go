package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "debug", false},
		{"INFO", "info", false},
		{"", "info", false},
		{"warning", "warn", false},
		{"error", "error", false},
		{"loud", "info", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() should reject an unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() should reject an unknown format")
	}
}

func TestNewJSON(t *testing.T) {
	l, err := New(Config{Level: "warn", Format: FormatJSON, Output: "stderr"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("warn logger should not log info")
	}
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Component(zap.New(core), "view").Info("mounted")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "view" {
		t.Errorf("component = %v, want view", got)
	}
	Component(nil, "x").Info("dropped")
}
