// Package output provides the asynchronous, rate-paced console printer.
//
// Messages submitted through a Handle are rendered by a single background
// worker, one character at a time when the destination is an interactive
// terminal and as one atomic write otherwise. The package depends only on the
// interfaces below for the destination, the log sink and color resolution.
package output

import "io"

// Destination is where rendered messages are written.
// Implementations must tolerate concurrent Write calls: a submitter that
// evicts queued messages renders them while the worker may still be writing.
type Destination interface {
	io.Writer

	// Flush pushes any buffered bytes to the underlying device.
	Flush() error

	// IsInteractive reports whether the destination is a terminal that should
	// receive paced, styled output.
	IsInteractive() bool
}

// LogSink receives the text of messages submitted with logging enabled.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type LogSink interface {
	Info(msg interface{}, keyvals ...interface{})
}

// ColorResolver turns a color specification into a start sequence.
// An empty result means the message is not styled.
type ColorResolver func(spec string) (string, error)

// State is the lifecycle state of a printer's worker.
type State int

const (
	// StateStopped means no worker goroutine exists.
	StateStopped State = iota
	// StateRunning means the worker is dequeuing messages.
	StateRunning
	// StateStopping means a stop was requested and the worker is exiting.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
