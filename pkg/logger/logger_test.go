package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmpd/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "file output",
			cfg:     &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "fmpd.log")},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmpd.log")
	log, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	log.WithField("fbid", "10150").Info("photo stored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fbid":"10150"`)
	assert.Contains(t, string(data), `"message":"photo stored"`)
}

func TestNewFileLogger(t *testing.T) {
	log, err := NewFileLogger(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)
	assert.IsType(t, &nopLogger{}, log)

	path := filepath.Join(t.TempDir(), "logs", "fmpd.log")
	log, err = NewFileLogger(&config.LoggingConfig{Level: "warn", File: path})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"message":"kept"`)

	_, err = NewFileLogger(&config.LoggingConfig{Level: "loud", File: path})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.DebugLevel)

	log.WithField("fbid", "1").
		WithFields(map[string]interface{}{"attempt": 2, "elapsed": time.Second}).
		WithError(errors.New("boom")).
		Warn("something odd")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "something odd", entry["message"])
	assert.Equal(t, "1", entry["fbid"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "fmpd", entry["app"])
}

func TestLoggerWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.DebugLevel).WithField("a", "1")
	_ = parent.WithField("b", "2")

	parent.Info("parent only")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0]["a"])
	assert.NotContains(t, lines[0], "b")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.WarnLevel)

	log.Debug("hidden")
	log.InfoWithFields("hidden too", map[string]interface{}{"x": 1})
	log.ErrorWithFields("shown", map[string]interface{}{"x": 1})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestWithNilError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)
	assert.Same(t, log, log.WithError(nil))
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetLogger(prev)

	testLog := NewTestLogger()
	SetLogger(testLog)

	WithField("fbid", "42").Info("global info")
	WithError(errors.New("bad")).Error("global error")
	Warn("plain warn")

	assert.True(t, testLog.HasMessage("global info"))
	assert.True(t, testLog.HasError())
	require.Len(t, testLog.GetMessagesByLevel("WARN"), 1)

	infos := testLog.GetMessagesByLevel("INFO")
	require.Len(t, infos, 1)
	assert.Equal(t, "42", infos[0].Fields["fbid"])
}

func TestTestLoggerSharedSink(t *testing.T) {
	log := NewTestLogger()
	child := log.WithField("component", "downloader")
	child.InfoWithFields("stored", map[string]interface{}{"file": "20200101.jpg"})

	msgs := log.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "downloader", msgs[0].Fields["component"])
	assert.Equal(t, "20200101.jpg", msgs[0].Fields["file"])
	assert.Contains(t, log.String(), "[INFO] stored")

	log.Clear()
	assert.Empty(t, log.GetMessages())
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.WithField("a", 1).WithError(errors.New("x")).Error("nothing")
	log.InfoWithFields("nothing", nil)
}
