package output

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"wickedprint/internal/color"
	"wickedprint/internal/logger"
)

// DefaultStopTimeout bounds how long Stop waits for the worker to exit
// before draining on the caller.
const DefaultStopTimeout = time.Second

// Option is a functional option for configuring Handle and Printer instances.
type Option func(*settings)

type settings struct {
	source      func() Destination
	sink        LogSink
	resolve     ColorResolver
	session     func() bool
	maxQueue    int
	stopTimeout time.Duration
	log         *log.Logger
}

func newSettings(options []Option) settings {
	s := settings{
		source:      Stdout,
		sink:        processSink{},
		resolve:     color.Resolve,
		session:     func() bool { return false },
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range options {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.NewStyledLogger("printer")
	}
	return s
}

// WithDestination makes every message render to d.
func WithDestination(d Destination) Option {
	return func(s *settings) {
		if d != nil {
			s.source = func() Destination { return d }
		}
	}
}

// WithWriter renders to w, detecting interactivity as NewDestination does.
// Default is os.Stdout, re-read on every submission.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			WithDestination(NewDestination(w))(s)
		}
	}
}

// WithDestinationSource sets the function consulted on every submission to
// find the current destination.
func WithDestinationSource(source func() Destination) Option {
	return func(s *settings) {
		if source != nil {
			s.source = source
		}
	}
}

// WithLogSink sets where logged message text goes. Default is the process
// logger from internal/logger.
func WithLogSink(sink LogSink) Option {
	return func(s *settings) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithColorResolver replaces the color resolver. Default is color.Resolve.
func WithColorResolver(resolve ColorResolver) Option {
	return func(s *settings) {
		if resolve != nil {
			s.resolve = resolve
		}
	}
}

// WithSessionDetector sets the check for an interactive top-level session,
// which enables the direct-print bypass for unpaced messages.
func WithSessionDetector(detect func() bool) Option {
	return func(s *settings) {
		if detect != nil {
			s.session = detect
		}
	}
}

// InteractiveSession is shorthand for a fixed session detector.
func InteractiveSession(interactive bool) Option {
	return WithSessionDetector(func() bool { return interactive })
}

// WithMaxQueue bounds the queue. Non-positive values leave it unbounded; use
// Configure for a checked setting.
func WithMaxQueue(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxQueue = n
		}
	}
}

// WithStopTimeout sets how long Stop waits for the worker.
func WithStopTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithLogger sets the logger used for the printer's own diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// QueueOption is a setting applied by Configure.
type QueueOption func(*queueConfig) error

type queueConfig struct {
	maxQueue int
}

// MaxQueue bounds the queue to n pending messages. n must be positive.
func MaxQueue(n int) QueueOption {
	return func(c *queueConfig) error {
		if n <= 0 {
			return rangeError("max_queue", "must be positive when provided", nil)
		}
		c.maxQueue = n
		return nil
	}
}

// processSink forwards to the process logger, looked up at call time so a
// later logger.Configure takes effect.
type processSink struct{}

func (processSink) Info(msg interface{}, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}
