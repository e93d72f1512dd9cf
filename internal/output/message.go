package output

import (
	"strings"
	"time"
)

// DefaultInterval is the pause between characters when a request does not
// set one.
const DefaultInterval = 15 * time.Millisecond

// Message is one validated unit of output. It is never modified after Build
// returns it.
type Message struct {
	text      string
	end       string
	interval  time.Duration
	logOnEmit bool
	start     string
}

// Text returns the message body.
func (m Message) Text() string { return m.text }

// End returns the terminator written after the body.
func (m Message) End() string { return m.end }

// Interval returns the pause between characters on interactive destinations.
func (m Message) Interval() time.Duration { return m.interval }

// LogOnEmit reports whether the body is sent to the log sink when rendered.
func (m Message) LogOnEmit() bool { return m.logOnEmit }

// Start returns the resolved style sequence, or "" when unstyled.
func (m Message) Start() string { return m.start }

// Request collects the parameters of a print call. The zero value is not
// useful; start from NewRequest.
type Request struct {
	values   []string
	end      string
	sep      string
	logging  bool
	interval time.Duration
	color    string
}

// NewRequest returns a request for values with the defaults: newline
// terminator, single space separator, no logging, DefaultInterval pacing and
// no color.
func NewRequest(values ...string) Request {
	return Request{
		values:   append([]string(nil), values...),
		end:      "\n",
		sep:      " ",
		interval: DefaultInterval,
	}
}

// WithEnd sets the terminator.
func (r Request) WithEnd(end string) Request {
	r.end = end
	return r
}

// WithSep sets the separator used to join values.
func (r Request) WithSep(sep string) Request {
	r.sep = sep
	return r
}

// WithLogging enables forwarding the rendered text to the log sink.
func (r Request) WithLogging(enabled bool) Request {
	r.logging = enabled
	return r
}

// WithInterval sets the pause between characters. Zero renders as fast as
// the destination allows.
func (r Request) WithInterval(d time.Duration) Request {
	r.interval = d
	return r
}

// WithColor sets a color name or hex specification.
func (r Request) WithColor(spec string) Request {
	r.color = spec
	return r
}

// Interval returns the requested pacing.
func (r Request) Interval() time.Duration { return r.interval }

// Text returns the values joined with the separator.
func (r Request) Text() string {
	return strings.Join(r.values, r.sep)
}

// Build validates the request and produces its Message. resolve may be nil
// when no color support is wanted; a non-blank color then fails.
func (r Request) Build(resolve ColorResolver) (Message, error) {
	if r.interval < 0 {
		return Message{}, rangeError("print_interval", "must be non-negative, got "+r.interval.String(), nil)
	}

	start, err := r.resolveColor(resolve)
	if err != nil {
		return Message{}, err
	}

	return Message{
		text:      r.Text(),
		end:       r.end,
		interval:  r.interval,
		logOnEmit: r.logging,
		start:     start,
	}, nil
}

func (r Request) resolveColor(resolve ColorResolver) (string, error) {
	if strings.TrimSpace(r.color) == "" {
		return "", nil
	}
	if resolve == nil {
		return "", rangeError("color", "no color resolver configured", nil)
	}
	start, err := resolve(r.color)
	if err != nil {
		return "", rangeError("color", "cannot resolve "+r.color, err)
	}
	return start, nil
}
