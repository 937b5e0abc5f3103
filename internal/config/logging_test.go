package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    LoggingConfig
		override  string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "defaults", wantLevel: zapcore.InfoLevel},
		{name: "configured level", config: LoggingConfig{Level: "warn", Format: "console"}, wantLevel: zapcore.WarnLevel},
		{name: "override wins", config: LoggingConfig{Level: "error"}, override: "debug", wantLevel: zapcore.DebugLevel},
		{name: "invalid level", config: LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "invalid override", override: "trace", wantErr: true},
		{name: "invalid format", config: LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %s not enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("level below %s enabled", tt.wantLevel)
			}
		})
	}
}

func TestNewLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "immo.log")
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected the log line in the output file")
	}
}
