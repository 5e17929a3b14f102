package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, dev := range []bool{false, true} {
		logger, err := New("warn", dev)
		if err != nil {
			t.Fatalf("dev=%v: unexpected error: %v", dev, err)
		}
		if logger.Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("dev=%v: info should be disabled at warn level", dev)
		}
		if !logger.Core().Enabled(zapcore.WarnLevel) {
			t.Fatalf("dev=%v: warn should be enabled", dev)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
