package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestConfigure_EnvFallback(t *testing.T) {
	level := Logger.GetLevel()
	t.Cleanup(func() { Logger.SetLevel(level); SetOutput(os.Stderr) })

	t.Setenv("WICKED_LOG_LEVEL", "warn")
	require.NoError(t, Configure("", "", false))
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())

	require.NoError(t, Configure("debug", "", false))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel(), "flag wins over env")
}

func TestConfigure_TestModeFixesLevel(t *testing.T) {
	level := Logger.GetLevel()
	t.Cleanup(func() { Logger.SetLevel(level); SetOutput(os.Stderr) })

	require.NoError(t, Configure("debug", "", true))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestConfigure_LogFile(t *testing.T) {
	level := Logger.GetLevel()
	t.Cleanup(func() { Logger.SetLevel(level); SetOutput(os.Stderr) })

	path := filepath.Join(t.TempDir(), "wicked.log")
	require.NoError(t, Configure("info", path, false))

	Info("hello from file", "printer", "abc")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from file")
}

func TestConfigure_BadLogFile(t *testing.T) {
	err := Configure("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"), false)
	assert.Error(t, err)
}

func TestNewStyledLogger_UsesGlobalOutputAndLevel(t *testing.T) {
	level := Logger.GetLevel()
	t.Cleanup(func() { Logger.SetLevel(level); SetOutput(os.Stderr) })

	var buf bytes.Buffer
	SetOutput(&buf)
	Logger.SetLevel(log.DebugLevel)

	l := NewStyledLogger("printer")
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.Debug("worker started", "printer", "id-1")
	assert.Contains(t, buf.String(), "worker started")
	assert.Contains(t, buf.String(), "printer")
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSetOutput_WhileLogging(t *testing.T) {
	t.Cleanup(func() { SetOutput(os.Stderr) })

	before := Logger
	first, second := &syncBuffer{}, &syncBuffer{}
	SetOutput(first)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			Info("tick", "i", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				SetOutput(second)
			} else {
				SetOutput(first)
			}
		}
	}()
	wg.Wait()

	assert.Same(t, before, Logger, "the global logger is reconfigured in place")

	SetOutput(second)
	Info("after switch")
	assert.Contains(t, second.String(), "after switch")
	assert.NotContains(t, first.String(), "after switch")
}
