package sched

import (
	"container/heap"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a handle to scheduled work on a Loop. A repeating task keeps the
// same handle across runs, so one Cancel ends the whole chain.
type Task struct {
	loop      *Loop
	fn        func() time.Duration
	due       time.Time
	seq       uint64
	index     int
	stop      func() bool
	cancelled atomic.Bool
}

// Cancel removes the task from its loop. A run already in progress finishes
// but is not rescheduled.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	t.loop.remove(t)
}

// Cancelled reports whether Cancel, Purge or Close ended the task.
func (t *Task) Cancelled() bool {
	return t == nil || t.cancelled.Load()
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Loop is a single goroutine running tasks in (due, posting) order.
type Loop struct {
	name   string
	clock  Clock
	logger *slog.Logger

	mu     sync.Mutex
	queue  taskQueue
	seq    uint64
	closed bool

	kick chan chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewLoop starts a loop. A nil clock means the wall clock.
func NewLoop(name string, clock Clock, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		name:   name,
		clock:  clock,
		logger: logger,
		kick:   make(chan chan struct{}),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Post runs fn once after delay.
func (l *Loop) Post(delay time.Duration, fn func()) *Task {
	return l.Every(delay, func() time.Duration {
		fn()
		return -1
	})
}

// Every runs fn after delay, then again each time after the duration fn
// returns. A negative return ends the task. The next run is measured from the
// previous due time, not from when fn finished, so a repeating task does not
// drift; a run that falls behind is moved up to now.
func (l *Loop) Every(delay time.Duration, fn func() time.Duration) *Task {
	t := &Task{loop: l, fn: fn, index: -1}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		t.cancelled.Store(true)
		return t
	}
	if delay < 0 {
		delay = 0
	}
	l.push(t, l.clock.Now().Add(delay))
	return t
}

// Purge cancels every pending task. Runs already in progress complete but
// are not rescheduled.
func (l *Loop) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purge()
}

// Close purges the loop and stops its goroutine. It does not wait, so it is
// safe to call from inside a task of the same loop.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.purge()
	close(l.quit)
}

// Alive reports whether the loop accepts work.
func (l *Loop) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case ack := <-l.kick:
			l.drain()
			close(ack)
		case <-l.quit:
			return
		}
	}
}

// fire hands control to the loop goroutine and waits until every task that
// is due has run.
func (l *Loop) fire() {
	ack := make(chan struct{})
	select {
	case l.kick <- ack:
	case <-l.quit:
		return
	}
	select {
	case <-ack:
	case <-l.quit:
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if l.closed || len(l.queue) == 0 || l.queue[0].due.After(l.clock.Now()) {
			l.mu.Unlock()
			return
		}
		t := heap.Pop(&l.queue).(*Task)
		if t.stop != nil {
			t.stop()
			t.stop = nil
		}
		l.mu.Unlock()

		if t.cancelled.Load() {
			continue
		}
		next := l.call(t)
		if next < 0 {
			continue
		}
		l.mu.Lock()
		l.push(t, t.due.Add(next))
		l.mu.Unlock()
	}
}

func (l *Loop) call(t *Task) (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduled task panicked",
				slog.String("loop", l.name),
				slog.Any("panic", r),
			)
			next = -1
		}
	}()
	return t.fn()
}

// push queues t at due. Callers hold l.mu.
func (l *Loop) push(t *Task, due time.Time) {
	if l.closed || t.cancelled.Load() {
		return
	}
	now := l.clock.Now()
	if due.Before(now) {
		due = now
	}
	l.seq++
	t.due = due
	t.seq = l.seq
	heap.Push(&l.queue, t)
	t.stop = l.clock.AfterFunc(due.Sub(now), l.fire)
}

func (l *Loop) remove(t *Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.index >= 0 && t.index < len(l.queue) && l.queue[t.index] == t {
		heap.Remove(&l.queue, t.index)
	}
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// purge cancels all queued tasks. Callers hold l.mu.
func (l *Loop) purge() {
	for _, t := range l.queue {
		t.cancelled.Store(true)
		t.index = -1
		if t.stop != nil {
			t.stop()
			t.stop = nil
		}
	}
	l.queue = nil
}
