package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"prod defaults", "prod", "", false},
		{"local defaults", "local", "", false},
		{"docker with override", "docker", "warn", false},
		{"unknown env", "staging", "", true},
		{"bad level", "prod", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestNew_LevelOverride(t *testing.T) {
	l, err := New("prod", "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug override not applied")
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := zap.NewNop()
	ctx := NewContext(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Error("stored logger not returned")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("expected no-op fallback, got nil")
	}
}
