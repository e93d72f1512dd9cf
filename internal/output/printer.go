package output

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Printer owns the message queue and the worker goroutine that renders it.
// A single mutex guards the queue, the worker state, the pending count and
// the queue bound; it is never held while rendering or pausing.
type Printer struct {
	id       string
	settings settings

	mu       sync.Mutex
	queue    []entry
	state    State
	maxQueue int
	pending  int           // submitted but not yet rendered
	idle     chan struct{} // closed while pending == 0
	wake     chan struct{}
	stop     chan struct{} // closed to stop the current worker
	done     chan struct{} // closed when the current worker exits
	err      error         // worker failure not yet reported by Flush
	tail     chan struct{} // closed when the latest submitter-side render ends
	stats    Stats

	stopMu sync.Mutex
}

// Stats counts what a printer has done since it was created.
type Stats struct {
	Submitted uint64
	Rendered  uint64
	Evicted   uint64
	Failed    uint64
}

// NewPrinter creates a stopped printer. The worker starts with the first
// Enqueue.
func NewPrinter(options ...Option) *Printer {
	return newPrinter(newSettings(options))
}

func newPrinter(s settings) *Printer {
	idle := make(chan struct{})
	close(idle)
	return &Printer{
		id:       uuid.NewString(),
		settings: s,
		maxQueue: s.maxQueue,
		idle:     idle,
		wake:     make(chan struct{}, 1),
	}
}

// ID returns the identifier used in the printer's diagnostic logs.
func (p *Printer) ID() string { return p.id }

// State returns the worker state.
func (p *Printer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Pending returns how many submitted messages have not finished rendering.
func (p *Printer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// QueueLen returns how many messages wait in the queue, excluding one the
// worker is rendering.
func (p *Printer) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// MaxQueue returns the queue bound, 0 when unbounded.
func (p *Printer) MaxQueue() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxQueue
}

// Stats returns a snapshot of the printer's counters.
func (p *Printer) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Configure replaces the queue settings. Settings that are not given revert
// to their defaults, so Configure() clears the bound. On error nothing
// changes.
func (p *Printer) Configure(options ...QueueOption) error {
	var cfg queueConfig
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.maxQueue = cfg.maxQueue
	p.mu.Unlock()

	p.settings.log.Debug("queue configured", "printer", p.id, "max_queue", cfg.maxQueue)
	return nil
}

// Enqueue submits m. It starts the worker if needed and, when the queue is at
// its bound, removes the oldest messages and renders them on the calling
// goroutine before returning. Errors from those renders are returned; m is
// queued regardless.
//
// m is held back from the worker until the evicted messages have rendered,
// and concurrent evicting submitters render in the order they evicted.
func (p *Printer) Enqueue(m Message) error {
	p.mu.Lock()
	dest := p.settings.source()
	e := entry{msg: m, dest: dest, interactive: dest.IsInteractive(), hold: p.tail}
	if p.state == StateStopped {
		p.startLocked()
	}
	evicted := p.evictLocked()
	var prev, done chan struct{}
	if len(evicted) > 0 {
		prev, done = p.tail, make(chan struct{})
		p.tail = done
		e.hold = done
	}
	p.queue = append(p.queue, e)
	p.addPendingLocked()
	p.stats.Submitted++
	p.mu.Unlock()

	p.notify()

	if len(evicted) == 0 {
		return nil
	}
	defer close(done)
	if prev != nil {
		<-prev
	}
	p.settings.log.Debug("rendering evicted messages", "printer", p.id, "count", len(evicted))

	var errs []error
	for _, old := range evicted {
		err := render(old, p.settings.sink, nil)
		p.finish(err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// beginDirect reserves the destination for one write that bypasses the
// queue. It fails while anything is pending or another submitter is still
// rendering. Messages enqueued before end is called wait for it.
func (p *Printer) beginDirect() (end func(), ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending > 0 || !released(p.tail) {
		return nil, false
	}
	done := make(chan struct{})
	p.tail = done
	return func() { close(done) }, true
}

// Flush blocks until every submitted message has rendered or ctx is done.
// It returns the error that stopped a failed worker, once. When the worker
// died with messages still queued and its error was already reported, a new
// worker is started for them.
func (p *Printer) Flush(ctx context.Context) error {
	for {
		p.mu.Lock()
		if p.pending == 0 {
			err := p.takeErrLocked()
			p.mu.Unlock()
			return err
		}

		var exited chan struct{}
		switch p.state {
		case StateRunning:
			exited = p.done
		case StateStopped:
			if len(p.queue) > 0 {
				if err := p.takeErrLocked(); err != nil {
					p.mu.Unlock()
					return err
				}
				p.startLocked()
				exited = p.done
			}
		}
		idle := p.idle
		p.mu.Unlock()

		select {
		case <-idle:
		case <-exited:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop halts the worker, waiting up to the stop timeout for it to exit, and
// then renders whatever is still queued on the calling goroutine. Render
// errors, including an unreported worker failure, are joined.
func (p *Printer) Stop() error {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	p.mu.Lock()
	var done chan struct{}
	if p.state == StateRunning {
		close(p.stop)
		done = p.done
	}
	p.state = StateStopping
	errs := []error{p.takeErrLocked()}
	p.mu.Unlock()

	if done != nil {
		t := time.NewTimer(p.settings.stopTimeout)
		select {
		case <-done:
		case <-t.C:
			p.settings.log.Warn("worker did not exit in time, draining anyway", "printer", p.id, "timeout", p.settings.stopTimeout)
		}
		t.Stop()
	}

	drained := 0
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.state = StateStopped
			p.mu.Unlock()
			break
		}
		if hold := p.queue[0].hold; !released(hold) {
			p.mu.Unlock()
			<-hold
			continue
		}
		e := p.popLocked()
		p.mu.Unlock()

		err := render(e, p.settings.sink, nil)
		p.finish(err)
		errs = append(errs, err)
		drained++
	}

	p.settings.log.Debug("printer stopped", "printer", p.id, "drained", drained)
	return errors.Join(errs...)
}

// startLocked starts a worker. A previous worker that outlived a stop
// timeout is still the only one writing until it exits; the new one waits
// for it.
func (p *Printer) startLocked() {
	prev := p.done
	p.state = StateRunning
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stop, p.done, prev)
	p.settings.log.Debug("worker started", "printer", p.id)
}

func (p *Printer) run(stop, done, prev chan struct{}) {
	defer close(done)
	if prev != nil {
		select {
		case <-prev:
		case <-stop:
			return
		}
	}
	for {
		select {
		case <-stop:
			return
		default:
		}

		e, hold, ok := p.next()
		if !ok {
			select {
			case <-p.wake:
			case <-stop:
				return
			}
			continue
		}
		if hold != nil {
			select {
			case <-hold:
			case <-stop:
				return
			}
			continue
		}

		if err := render(e, p.settings.sink, stop); err != nil {
			p.fail(err, done)
			return
		}
		p.finish(nil)
	}
}

// fail records a render error, marks the message processed and, if done
// still belongs to the current worker, moves the printer to stopped so the
// next Enqueue starts a fresh worker.
func (p *Printer) fail(err error, done chan struct{}) {
	p.mu.Lock()
	p.err = fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	if p.done == done && p.state == StateRunning {
		p.state = StateStopped
	}
	p.stats.Failed++
	p.donePendingLocked()
	p.mu.Unlock()

	p.settings.log.Error("worker stopped after render failure", "printer", p.id, "error", err)
}

// next pops the front entry. When the front entry is still held it is left
// in place and its hold channel is returned instead.
func (p *Printer) next() (entry, <-chan struct{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return entry{}, nil, false
	}
	if hold := p.queue[0].hold; !released(hold) {
		return entry{}, hold, true
	}
	return p.popLocked(), nil, true
}

func (p *Printer) popLocked() entry {
	e := p.queue[0]
	p.queue[0] = entry{}
	p.queue = p.queue[1:]
	return e
}

// evictLocked removes the oldest entries until there is room for one more.
// Evicted entries stay pending until the submitter has rendered them.
func (p *Printer) evictLocked() []entry {
	if p.maxQueue <= 0 {
		return nil
	}
	var evicted []entry
	for len(p.queue) >= p.maxQueue {
		evicted = append(evicted, p.popLocked())
	}
	p.stats.Evicted += uint64(len(evicted))
	return evicted
}

func (p *Printer) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.stats.Failed++
	} else {
		p.stats.Rendered++
	}
	p.donePendingLocked()
}

func (p *Printer) addPendingLocked() {
	if p.pending == 0 {
		p.idle = make(chan struct{})
	}
	p.pending++
}

func (p *Printer) donePendingLocked() {
	p.pending--
	if p.pending == 0 {
		close(p.idle)
	}
}

func (p *Printer) takeErrLocked() error {
	err := p.err
	p.err = nil
	return err
}

// released reports whether ch is nil or closed.
func released(ch <-chan struct{}) bool {
	if ch == nil {
		return true
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func (p *Printer) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
