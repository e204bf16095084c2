package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := NewLogger(tt.level)
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

func TestAuditLoggerPickRecorded(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPickRecorded(
		"7b6e1a9e-53a4-4a87-8f2e-2d9093a1c001",
		"nba",
		"LAL @ SAS",
		"HOME",
		"SAS",
		-4.0,
		-110,
		"1",
		time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "LAL @ SAS", logEntry["matchup"])
	assert.Equal(t, "HOME", logEntry["play_side"])
	assert.Equal(t, -4.0, logEntry["line_taken"])
	assert.Equal(t, float64(-110), logEntry["odds_taken"])
}

func TestAuditLoggerPickGraded(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPickGraded(
		"7b6e1a9e-53a4-4a87-8f2e-2d9093a1c001",
		"win",
		-5.5,
		-1.5,
		"0.91",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "win", logEntry["result"])
	assert.Equal(t, -1.5, logEntry["clv"])
	assert.Equal(t, "0.91", logEntry["profit_units"])
}

func TestAuditLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPickGraded("id", "push", -4.0, 0, "0.00")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkAuditLoggerPickRecorded(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogPickRecorded(
			"7b6e1a9e-53a4-4a87-8f2e-2d9093a1c001",
			"nba",
			"LAL @ SAS",
			"HOME",
			"SAS",
			-4.0,
			-110,
			"1",
			time.Now(),
		)
	}
}
