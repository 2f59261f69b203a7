package js

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// task is a queued callback.
type task struct {
	callback goja.Callable
	args     []goja.Value
}

// timer is a callback scheduled by setTimeout or setInterval.
type timer struct {
	task
	id       int
	seq      uint64
	due      time.Time
	interval time.Duration
	repeat   bool
}

// scheduler holds queued microtasks and pending timers. Timers fire in due
// order; timers due at the same instant fire in the order they were armed.
type scheduler struct {
	mu         sync.Mutex
	microtasks []task
	timers     map[int]*timer
	nextID     int
	seq        uint64
	now        func() time.Time
}

func newScheduler() *scheduler {
	return &scheduler{
		timers: make(map[int]*timer),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *scheduler) queueMicrotask(callback goja.Callable, args []goja.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.microtasks = append(s.microtasks, task{callback: callback, args: args})
}

// schedule arms a timer and returns its id. A repeating timer re-arms
// itself with the same delay after each run.
func (s *scheduler) schedule(callback goja.Callable, delay time.Duration, repeat bool, args []goja.Value) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	id := s.nextID
	s.nextID++
	s.seq++

	s.timers[id] = &timer{
		task:     task{callback: callback, args: args},
		id:       id,
		seq:      s.seq,
		due:      s.now().Add(delay),
		interval: delay,
		repeat:   repeat,
	}
	return id
}

func (s *scheduler) clear(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
}

func (s *scheduler) popMicrotask() (task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.microtasks) == 0 {
		return task{}, false
	}
	t := s.microtasks[0]
	s.microtasks = s.microtasks[1:]
	return t, true
}

// next returns the timer that fires first, or nil when none is pending.
func (s *scheduler) next() *timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	pending := make([]*timer, 0, len(s.timers))
	for _, t := range s.timers {
		pending = append(pending, t)
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].due.Equal(pending[j].due) {
			return pending[i].due.Before(pending[j].due)
		}
		return pending[i].seq < pending[j].seq
	})
	return pending[0]
}

// fired removes a one-shot timer or re-arms an interval after it ran. A
// timer cleared by its own callback stays cleared.
func (s *scheduler) fired(t *timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[t.id]; !ok {
		return
	}
	if !t.repeat {
		delete(s.timers, t.id)
		return
	}
	s.seq++
	t.seq = s.seq
	t.due = s.now().Add(t.interval)
}

func (s *scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.microtasks) + len(s.timers)
}

func (s *scheduler) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.microtasks = nil
	s.timers = make(map[int]*timer)
}

// setupTimers installs setTimeout, setInterval, their clear functions and
// queueMicrotask.
func (r *Runtime) setupTimers() {
	vm := r.vm

	arm := func(name string, repeat bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			callback, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				panic(vm.NewTypeError("%s: callback is not a function", name))
			}
			delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = append(args, call.Arguments[2:]...)
			}
			return vm.ToValue(r.sched.schedule(callback, delay, repeat, args))
		}
	}
	clearTimer := func(call goja.FunctionCall) goja.Value {
		r.sched.clear(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	}

	vm.Set("setTimeout", arm("setTimeout", false))
	vm.Set("setInterval", arm("setInterval", true))
	vm.Set("clearTimeout", clearTimer)
	vm.Set("clearInterval", clearTimer)
	vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("queueMicrotask: callback is not a function"))
		}
		r.sched.queueMicrotask(callback, nil)
		return goja.Undefined()
	})
}

// PendingTasks returns the number of queued microtasks and armed timers.
func (r *Runtime) PendingTasks() int {
	return r.sched.pending()
}

// CancelPendingTasks drops every queued microtask and timer.
func (r *Runtime) CancelPendingTasks() {
	r.sched.reset()
}

// RunPending runs queued microtasks and timers until none remain, waiting
// for timers that are not yet due. Microtasks drain before each timer. A
// callback that throws is recorded like a script error and does not stop
// the loop. RunPending returns ctx.Err() if ctx ends first, which is the
// only way out while an interval stays armed.
func (r *Runtime) RunPending(ctx context.Context) error {
	for {
		r.drainMicrotasks()

		t := r.sched.next()
		if t == nil {
			return nil
		}
		if wait := t.due.Sub(r.sched.now()); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		r.runTask(t.task, "timer")
		r.sched.fired(t)
	}
}

func (r *Runtime) drainMicrotasks() {
	for {
		t, ok := r.sched.popMicrotask()
		if !ok {
			return
		}
		r.runTask(t, "microtask")
	}
}

// runTask invokes a scheduled callback under the runtime lock.
func (r *Runtime) runTask(t task, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			r.recordError(fmt.Errorf("%s panic: %v", kind, p), "")
		}
	}()

	if _, err := t.callback(goja.Undefined(), t.args...); err != nil {
		r.recordError(fmt.Errorf("%s callback: %w", kind, err), "")
	}
}
