package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wickedprint/internal/output"
)

// execute runs the CLI with captured output and drains the printer it
// installed, the way run does.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := output.SetDefault(nil)
	t.Cleanup(func() {
		_ = output.Shutdown()
		output.SetDefault(prev)
	})

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--test-mode"}, args...))

	err := root.Execute()
	require.NoError(t, output.Shutdown())
	return out.String(), err
}

func TestSay(t *testing.T) {
	out, err := execute(t, "", "say", "hello", "world", "--interval", "0")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestSay_Options(t *testing.T) {
	out, err := execute(t, "", "say", "a", "b", "--sep", "-", "--end", "!", "--color", "red")
	require.NoError(t, err)
	assert.Equal(t, "a-b!", out, "no styling when output is not a terminal")
}

func TestSay_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative interval", []string{"say", "x", "--interval=-1s"}},
		{"bad color", []string{"say", "x", "--color", "#12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			assert.ErrorIs(t, err, output.ErrOutOfRange)
			assert.Empty(t, out)
		})
	}
}

func TestReplay_Stdin(t *testing.T) {
	input := `{"values": ["value:", 123], "sep": "|", "print_interval": 0}

{"values": ["next"], "end": "."}
`
	out, err := execute(t, input, "replay")
	require.NoError(t, err)
	assert.Equal(t, "value:|123\nnext.", out)
}

func TestReplay_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"values": ["from file"]}`+"\n"), 0600))

	out, err := execute(t, "", "replay", path)
	require.NoError(t, err)
	assert.Equal(t, "from file\n", out)
}

func TestReplay_StopsAtBadLine(t *testing.T) {
	input := `{"values": ["ok"]}
{"values": ["bad"], "perform_logging": "yes"}
{"values": ["never"]}
`
	out, err := execute(t, input, "replay")
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrInvalidKind)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, "ok\n", out)
}

func TestReplay_UsesBaseInterval(t *testing.T) {
	dest := output.NewTerminalCaptureBuffer()
	prev := output.SetDefault(output.NewHandle(output.WithDestination(dest)))
	t.Cleanup(func() {
		_ = output.Shutdown()
		output.SetDefault(prev)
	})

	base := output.NewRequest().WithInterval(30 * time.Millisecond)
	input := `{"values": ["abc"], "end": ""}` + "\n"

	start := time.Now()
	require.NoError(t, replay(context.Background(), strings.NewReader(input), base))
	require.NoError(t, output.Flush(context.Background()))

	assert.Equal(t, "abc", dest.String())
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestReplay_MissingFile(t *testing.T) {
	_, err := execute(t, "", "replay", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaxQueueFlag(t *testing.T) {
	_, err := execute(t, "", "--max-queue=-1", "say", "x")
	assert.Error(t, err)

	out, err := execute(t, "", "--max-queue", "2", "say", "x", "--interval", "0")
	require.NoError(t, err)
	assert.Equal(t, "x\n", out)
	assert.Equal(t, 2, output.Default().Printer().MaxQueue())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wicked v"))

	out, err = execute(t, "", "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Version:")
}
