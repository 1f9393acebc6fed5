// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package debounce coalesces bursts of updates into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 300 * time.Millisecond

// Debouncer delivers the most recent value passed to Trigger once no new
// value has arrived for the configured delay. Only one timer is armed at a
// time; a superseded timer never invokes the callback.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending T
	armed   bool
	stopped bool
}

// New returns a Debouncer that calls fn after delay. A non-positive delay
// uses DefaultDelay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.armed = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// Stop can race with AfterFunc; the generation check settles it.
	if gen != d.gen || !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Flush delivers a pending value immediately. It reports whether there was
// one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a value is waiting to be delivered.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Cancel drops a pending value without delivering it. The debouncer stays
// usable.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.armed = false
	d.timer = nil
}

// Stop cancels any pending delivery. Later Trigger calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.armed = false
	d.stopped = true
	d.timer = nil
}
