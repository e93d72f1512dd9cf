package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

type flusher interface {
	Flush() error
}

// writerDestination adapts a plain io.Writer.
type writerDestination struct {
	w           io.Writer
	interactive bool
}

// NewDestination wraps w as a Destination. Writers that already implement
// Destination are returned unchanged. Interactivity is detected once, from the
// writer's file descriptor when it has one; anything else is treated as
// non-interactive. Flush is forwarded to writers with a Flush method, such as
// *bufio.Writer.
func NewDestination(w io.Writer) Destination {
	if d, ok := w.(Destination); ok {
		return d
	}
	interactive := false
	if f, ok := w.(fdWriter); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &writerDestination{w: w, interactive: interactive}
}

// Stdout returns a Destination for the current os.Stdout. It reads the
// variable on every call so a redirected os.Stdout is picked up.
func Stdout() Destination {
	return NewDestination(os.Stdout)
}

func (d *writerDestination) Write(p []byte) (int, error) {
	return d.w.Write(p)
}

func (d *writerDestination) Flush() error {
	if f, ok := d.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (d *writerDestination) IsInteractive() bool {
	return d.interactive
}
