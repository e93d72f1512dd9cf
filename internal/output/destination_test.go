package output

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDestination_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	d := NewDestination(&buf)

	assert.False(t, d.IsInteractive())
	_, err := d.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	assert.Equal(t, "x", buf.String())
}

func TestNewDestination_ForwardsFlush(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	d := NewDestination(bw)

	_, err := d.Write([]byte("buffered"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	require.NoError(t, d.Flush())
	assert.Equal(t, "buffered", buf.String())
}

func TestNewDestination_RegularFileIsNotInteractive(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, NewDestination(f).IsInteractive())
}

func TestNewDestination_KeepsDestinations(t *testing.T) {
	buf := NewTerminalCaptureBuffer()
	assert.Same(t, buf, NewDestination(buf))
}

func TestWithWriter_AtomicRender(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandle(WithWriter(&buf), quiet())

	require.NoError(t, h.Submit(NewRequest("to a writer").WithColor("red")))
	require.NoError(t, h.Stop())
	assert.Equal(t, "to a writer\n", buf.String())
}
