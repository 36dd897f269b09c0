package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"aether-lms/backend/config"
)

func TestNewLogger_Levels(t *testing.T) {
	cases := []struct {
		format string
		level  string
		want   zapcore.Level
	}{
		{"json", "info", zapcore.InfoLevel},
		{"console", "debug", zapcore.DebugLevel},
		{"", "warn", zapcore.WarnLevel},
	}
	for _, tc := range cases {
		logger, err := NewLogger(&config.LogConfig{Level: tc.level, Format: tc.format})
		if err != nil {
			t.Fatalf("format=%q level=%q 初始化失败: %v", tc.format, tc.level, err)
		}
		if !logger.Core().Enabled(tc.want) {
			t.Errorf("format=%q 应启用 %s 级别", tc.format, tc.want)
		}
		if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
			t.Errorf("format=%q 不应启用低于 %s 的级别", tc.format, tc.want)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "verbose", Format: "json"}); err == nil {
		t.Error("无效日志级别应返回错误")
	}
}
