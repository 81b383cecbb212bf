package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces events per path and flushes them in batches: either
// when the quiet window elapses or when the batch limit is hit.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	onFlush  func([]FileEvent)

	mu      sync.Mutex
	events  map[string]FileEvent
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, maxBatch int, onFlush func([]FileEvent)) *Debouncer {
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		events:   make(map[string]FileEvent),
		onFlush:  onFlush,
	}
}

// Add records an event, restarting the quiet window. A later event for the
// same path replaces the earlier one.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.events[event.Path] = event
	if len(d.events) >= d.maxBatch {
		batch := d.takeLocked()
		d.mu.Unlock()
		d.deliver(batch)
		return
	}
	d.timer = time.AfterFunc(d.window, d.Flush)
	d.mu.Unlock()
}

// Flush delivers the pending batch immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped && len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	batch := d.takeLocked()
	d.mu.Unlock()
	d.deliver(batch)
}

// takeLocked removes and returns the pending events. Caller holds d.mu.
func (d *Debouncer) takeLocked() []FileEvent {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len(d.events) == 0 {
		return nil
	}
	batch := make([]FileEvent, 0, len(d.events))
	for _, event := range d.events {
		batch = append(batch, event)
	}
	d.events = make(map[string]FileEvent)
	return batch
}

func (d *Debouncer) deliver(batch []FileEvent) {
	if len(batch) > 0 && d.onFlush != nil {
		d.onFlush(batch)
	}
}

// Stop flushes anything pending and rejects further events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	batch := d.takeLocked()
	d.mu.Unlock()
	d.deliver(batch)
}
