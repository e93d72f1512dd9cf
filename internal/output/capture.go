package output

import (
	"bytes"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// CaptureBuffer is a thread-safe in-memory Destination. It can pretend to be
// a terminal so paced, styled rendering can be observed in tests.
type CaptureBuffer struct {
	mu          sync.Mutex
	buf         bytes.Buffer
	interactive bool
	flushes     int
}

// NewCaptureBuffer creates a non-interactive capture buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

// NewTerminalCaptureBuffer creates a capture buffer that reports itself as an
// interactive terminal.
func NewTerminalCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{interactive: true}
}

// Write implements io.Writer for capturing output.
func (c *CaptureBuffer) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Flush implements Destination. It only counts calls.
func (c *CaptureBuffer) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	return nil
}

// IsInteractive implements Destination.
func (c *CaptureBuffer) IsInteractive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interactive
}

// SetInteractive changes what IsInteractive reports.
func (c *CaptureBuffer) SetInteractive(interactive bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactive = interactive
}

// Flushes returns how many times Flush was called.
func (c *CaptureBuffer) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}

// String returns the captured output as a string.
func (c *CaptureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Plain returns the captured output with escape sequences removed.
func (c *CaptureBuffer) Plain() string {
	return ansi.Strip(c.String())
}

// Lines returns the captured output split into lines.
func (c *CaptureBuffer) Lines() []string {
	content := c.String()
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// Reset clears the captured output.
func (c *CaptureBuffer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
	c.flushes = 0
}

// Len returns the number of bytes captured.
func (c *CaptureBuffer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Contains checks if the captured output contains the given text.
func (c *CaptureBuffer) Contains(text string) bool {
	return strings.Contains(c.String(), text)
}

// CaptureOutput runs fn against a fresh Handle writing into a capture buffer,
// stops the handle and returns everything it rendered.
// This is a convenience function for testing.
func CaptureOutput(fn func(*Handle), options ...Option) (string, error) {
	buffer := NewCaptureBuffer()
	h := NewHandle(append([]Option{WithDestination(buffer)}, options...)...)
	fn(h)
	err := h.Stop()
	return buffer.String(), err
}
