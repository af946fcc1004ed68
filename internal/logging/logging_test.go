package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"debug json", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "console"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLevel(t *testing.T) {
	logger, err := New(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level to be enabled")
	}

	logger, err = New(Config{Level: "nonsense"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Expected unknown level to fall back to warn")
	}
}

func TestNewOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otb.log")

	logger, err := New(Config{Level: "info", Format: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Info("grouped", zap.Int("rows", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"grouped"`) || !strings.Contains(string(data), `"rows":3`) {
		t.Errorf("Unexpected log output: %s", data)
	}
}
