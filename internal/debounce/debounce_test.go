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

package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	values []string
	fired  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := newRecorder()
	d := New(50*time.Millisecond, rec.record)

	for _, v := range []string{"r", "re", "rea", "reac", "react"} {
		d.Trigger(v)
	}

	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}

	// Give any stray timers a chance to misfire.
	time.Sleep(100 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "react" {
		t.Errorf("values = %v, want [react]", got)
	}
	if d.Pending() {
		t.Error("Pending() = true after delivery")
	}
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Trigger("first")
	<-rec.fired
	d.Trigger("second")
	<-rec.fired

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("values = %v, want [first second]", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	rec := newRecorder()
	d := New(time.Hour, rec.record)

	if d.Flush() {
		t.Error("Flush() with nothing pending returned true")
	}

	d.Trigger("go")
	if !d.Pending() {
		t.Fatal("Pending() = false after Trigger")
	}
	if !d.Flush() {
		t.Fatal("Flush() returned false with a pending value")
	}
	got := rec.snapshot()
	if len(got) != 1 || got[0] != "go" {
		t.Errorf("values = %v, want [go]", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Trigger("never")
	d.Stop()
	d.Trigger("ignored")
	time.Sleep(50 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("values = %v after Stop, want none", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Trigger("dropped")
	d.Cancel()
	time.Sleep(50 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("values = %v after Cancel, want none", got)
	}

	d.Trigger("kept")
	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debouncer unusable after Cancel")
	}
	if got := rec.snapshot(); len(got) != 1 || got[0] != "kept" {
		t.Errorf("values = %v, want [kept]", got)
	}
}

func TestNew_DefaultDelay(t *testing.T) {
	d := New(0, func(string) {})
	if d.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultDelay)
	}
}
