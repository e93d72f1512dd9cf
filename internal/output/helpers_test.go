package output

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var errBroken = errors.New("destination broken")

// gatedDestination blocks the first Write until release is closed and can
// be switched to fail every Write.
type gatedDestination struct {
	*CaptureBuffer
	armed   atomic.Bool
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	failing bool
}

func newGatedDestination(interactive bool) *gatedDestination {
	g := &gatedDestination{
		CaptureBuffer: &CaptureBuffer{interactive: interactive},
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	g.armed.Store(true)
	return g
}

func (g *gatedDestination) Write(p []byte) (int, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.started)
		<-g.release
	}
	g.mu.Lock()
	failing := g.failing
	g.mu.Unlock()
	if failing {
		return 0, errBroken
	}
	return g.CaptureBuffer.Write(p)
}

func (g *gatedDestination) setFailing(failing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing = failing
}

func (g *gatedDestination) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never started writing")
	}
}

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

func flushCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func unpaced(values ...string) Request {
	return NewRequest(values...).WithInterval(0)
}
