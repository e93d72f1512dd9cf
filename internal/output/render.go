package output

import (
	"time"
	"unicode/utf8"

	"wickedprint/internal/color"
)

// entry is a queued message plus the destination snapshot taken when it was
// submitted. While hold is open the worker must not render it.
type entry struct {
	msg         Message
	dest        Destination
	interactive bool
	hold        <-chan struct{}
}

// render writes e with the strategy its snapshot calls for and then logs the
// text if requested. Pauses are skipped once cancel is closed; a nil cancel
// never fires.
func render(e entry, sink LogSink, cancel <-chan struct{}) error {
	var err error
	if e.interactive {
		err = renderPaced(e.dest, e.msg, cancel)
	} else {
		err = renderAtomic(e.dest, e.msg)
	}
	if err != nil {
		return err
	}
	if e.msg.logOnEmit {
		sink.Info(e.msg.text)
	}
	return nil
}

// renderAtomic writes body and terminator as one unit. Styling never
// reaches non-interactive destinations.
func renderAtomic(d Destination, m Message) error {
	return writeFlush(d, m.text+m.end)
}

// renderPaced emits one character at a time. Deadlines accumulate from the
// start instant so write and flush overhead does not add up to drift.
func renderPaced(d Destination, m Message, cancel <-chan struct{}) error {
	if m.start != "" {
		if err := writeFlush(d, m.start); err != nil {
			return err
		}
	}

	next := time.Now()
	for i := 0; i < len(m.text); {
		_, size := utf8.DecodeRuneInString(m.text[i:])
		if err := writeFlush(d, m.text[i:i+size]); err != nil {
			return err
		}
		i += size

		if m.interval > 0 {
			next = next.Add(m.interval)
			pause(time.Until(next), cancel)
		}
	}

	tail := m.end
	if m.start != "" {
		tail = color.Reset + m.end
	}
	return writeFlush(d, tail)
}

// renderDirect is the single-write path used by the session bypass. Styling
// follows the same interactive-only rule as the queued path.
func renderDirect(e entry, sink LogSink) error {
	out := e.msg.text + e.msg.end
	if e.interactive && e.msg.start != "" {
		out = e.msg.start + e.msg.text + color.Reset + e.msg.end
	}
	if err := writeFlush(e.dest, out); err != nil {
		return err
	}
	if e.msg.logOnEmit {
		sink.Info(e.msg.text)
	}
	return nil
}

func writeFlush(d Destination, s string) error {
	if _, err := d.Write([]byte(s)); err != nil {
		return err
	}
	return d.Flush()
}

func pause(d time.Duration, cancel <-chan struct{}) {
	if d <= 0 {
		return
	}
	if cancel == nil {
		time.Sleep(d)
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-cancel:
	}
}
