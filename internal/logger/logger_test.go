package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"github.com/airport-ops/revenue-reconciler/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json", LogFile: "run.log"}

	lc := FromAppConfig(cfg, false)
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "run.log", lc.Output)

	assert.Equal(t, "debug", FromAppConfig(cfg, true).Level)
	assert.Equal(t, DefaultConfig(), FromAppConfig(nil, false))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"default config", DefaultConfig()},
		{"json to stdout", &Config{Level: "debug", Format: "json", Output: "stdout"}},
		{"console to stderr", &Config{Level: "error", Format: "console", Output: "STDERR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconciler.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("report saved", zap.String("period_start", "2025-11-05"))
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"report saved"`)
	assert.Contains(t, string(data), `"period_start":"2025-11-05"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info)
	newLogger := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)
	query := func() (string, int64) { return "SELECT 1", 1 }

	gormLog.Trace(context.Background(), time.Now(), query, nil)
	assert.Empty(t, recorded.All())

	gormLog.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Empty(t, recorded.All())

	gormLog.Trace(context.Background(), time.Now(), query, errors.New("disk I/O error"))
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "SQL Error", recorded.All()[0].Message)

	gormLog.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	require.Len(t, recorded.All(), 2)
	assert.Contains(t, recorded.All()[1].Message, "SLOW SQL")
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)

	gormLog.Info(context.Background(), "migrating %s", "billing_reports")
	gormLog.Trace(context.Background(), time.Now(), func() (string, int64) { return "", 0 }, errors.New("boom"))

	assert.Empty(t, recorded.All())
}
