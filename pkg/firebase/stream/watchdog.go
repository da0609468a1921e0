package stream

import (
	"sync"
	"time"
)

// Watchdog layers liveness enforcement on top of a session, using the
// stream's own keep-alive frames as heartbeats. The session itself never
// times out; a caller that cares wraps its Sink with Watchdog.Sink and acts
// on the stale callback (typically by closing the session so a supervisor
// reopens it).
type Watchdog struct {
	timeout time.Duration
	onStale func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatchdog creates a watchdog that invokes onStale once no event has been
// observed for timeout. It is armed on creation.
func NewWatchdog(timeout time.Duration, onStale func()) *Watchdog {
	w := &Watchdog{
		timeout: timeout,
		onStale: onStale,
	}
	w.timer = time.AfterFunc(timeout, w.fire)
	return w
}

// Reset marks the stream alive, pushing the stale deadline out by the full
// timeout. No-op after Stop.
func (w *Watchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer.Reset(w.timeout)
}

// Stop disarms the watchdog permanently.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	w.timer.Stop()
}

func (w *Watchdog) fire() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		w.onStale()
	}
}

// Sink wraps inner so that every observed event, keep-alives included,
// resets the watchdog before being forwarded.
func (w *Watchdog) Sink(inner Sink) Sink {
	return &heartbeatSink{inner: inner, dog: w}
}

type heartbeatSink struct {
	inner Sink
	dog   *Watchdog
}

func (h *heartbeatSink) OnKeepAlive() {
	h.dog.Reset()
	h.inner.OnKeepAlive()
}

func (h *heartbeatSink) OnPut(document map[string]any) {
	h.dog.Reset()
	h.inner.OnPut(document)
}

func (h *heartbeatSink) OnUnknownEvent(rawName string) {
	h.dog.Reset()
	h.inner.OnUnknownEvent(rawName)
}

func (h *heartbeatSink) OnDecodeError(err error) {
	h.dog.Reset()
	h.inner.OnDecodeError(err)
}
