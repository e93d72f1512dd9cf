package output

import (
	"context"
	"sync"
	"time"
)

// Handle lazily creates and owns one Printer. All submissions through a
// Handle render in submission order.
type Handle struct {
	settings settings

	mu      sync.Mutex
	printer *Printer
}

// NewHandle creates a handle; its printer is created on first use.
func NewHandle(options ...Option) *Handle {
	return &Handle{settings: newSettings(options)}
}

// Printer returns the handle's printer, creating it if necessary.
func (h *Handle) Printer() *Printer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.printer == nil {
		h.printer = newPrinter(h.settings)
	}
	return h.printer
}

// current returns the printer without creating one.
func (h *Handle) current() *Printer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.printer
}

// Print submits values with the default request settings.
func (h *Handle) Print(values ...string) error {
	return h.Submit(NewRequest(values...))
}

// Submit validates req and queues it. Validation errors are returned before
// anything is written.
//
// In an interactive top-level session (see WithSessionDetector) an unpaced
// request is written directly instead of being queued, as long as nothing
// queued earlier is still pending. Submissions that arrive during the direct
// write render after it.
func (h *Handle) Submit(req Request) error {
	msg, err := req.Build(h.settings.resolve)
	if err != nil {
		return err
	}

	if msg.interval == 0 && h.settings.session() {
		if ok, err := h.submitDirect(msg); ok {
			return err
		}
	}

	return h.Printer().Enqueue(msg)
}

// submitDirect writes msg on the caller when the printer is idle. Without a
// printer the handle lock is held for the write so none can be created
// meanwhile; otherwise the printer reserves the destination.
func (h *Handle) submitDirect(msg Message) (bool, error) {
	h.mu.Lock()
	p := h.printer
	if p == nil {
		defer h.mu.Unlock()
		return true, h.renderDirect(msg)
	}
	h.mu.Unlock()

	end, ok := p.beginDirect()
	if !ok {
		return false, nil
	}
	defer end()
	return true, h.renderDirect(msg)
}

func (h *Handle) renderDirect(msg Message) error {
	dest := h.settings.source()
	return renderDirect(entry{msg: msg, dest: dest, interactive: dest.IsInteractive()}, h.settings.sink)
}

// Flush waits until everything submitted so far has rendered or ctx is done.
// It returns immediately when no printer exists yet.
func (h *Handle) Flush(ctx context.Context) error {
	p := h.current()
	if p == nil {
		return nil
	}
	return p.Flush(ctx)
}

// FlushTimeout is Flush bounded by timeout; a non-positive timeout waits
// without limit. context.DeadlineExceeded is returned when the time runs out.
func (h *Handle) FlushTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return h.Flush(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.Flush(ctx)
}

// Configure applies queue settings to the handle's printer, creating it if
// necessary.
func (h *Handle) Configure(options ...QueueOption) error {
	return h.Printer().Configure(options...)
}

// Stop stops the printer, if one exists, rendering whatever is still queued.
// The printer stays attached and restarts on the next submission.
func (h *Handle) Stop() error {
	p := h.current()
	if p == nil {
		return nil
	}
	return p.Stop()
}

// Reset stops and discards the printer so the next use creates a new one.
func (h *Handle) Reset() error {
	h.mu.Lock()
	p := h.printer
	h.printer = nil
	h.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.Stop()
}

// Process-wide handle used by the package-level functions.
var (
	defaultHandle *Handle
	defaultMu     sync.Mutex
)

// Default returns the process-wide handle, creating it on first use.
func Default() *Handle {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHandle == nil {
		defaultHandle = NewHandle()
	}
	return defaultHandle
}

// SetDefault replaces the process-wide handle and returns the previous one,
// which may be nil. The previous handle is not stopped.
func SetDefault(h *Handle) *Handle {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultHandle
	defaultHandle = h
	return prev
}

// Print submits values through the process-wide handle.
func Print(values ...string) error {
	return Default().Print(values...)
}

// Submit submits req through the process-wide handle.
func Submit(req Request) error {
	return Default().Submit(req)
}

// Flush waits for the process-wide handle to drain.
func Flush(ctx context.Context) error {
	return Default().Flush(ctx)
}

// Configure applies queue settings to the process-wide handle.
func Configure(options ...QueueOption) error {
	return Default().Configure(options...)
}

// Shutdown stops the process-wide handle if it was ever created. Call it
// once on the way out of main so queued output is not lost.
func Shutdown() error {
	defaultMu.Lock()
	h := defaultHandle
	defaultMu.Unlock()
	if h == nil {
		return nil
	}
	return h.Stop()
}
