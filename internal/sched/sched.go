// Package sched provides a virtual-time timer scheduler.
//
// Timers never fire on their own: the owner advances the clock (normally
// once per simulation tick) and due callbacks run synchronously, in due-time
// order, on the caller's goroutine. This keeps deferred game logic on the
// same single thread as the rest of the simulation and makes it fully
// deterministic under test.
package sched

import (
	"container/heap"
	"time"
)

// MinPeriod is the smallest period accepted for repeating timers.
const MinPeriod = time.Millisecond

// Scheduler owns a virtual clock and a queue of pending timers.
// It is not safe for concurrent use.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers timerQueue
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	s      *Scheduler
	at     time.Duration
	period time.Duration
	fn     func()
	seq    uint64
	index  int // position in the queue, -1 when not queued
}

// New creates a scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of queued timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// AfterFunc schedules fn to run once, d after the current virtual time.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.add(d, 0, fn)
}

// Every schedules fn to run every period, first firing one period from now.
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period < MinPeriod {
		period = MinPeriod
	}
	return s.add(period, period, fn)
}

func (s *Scheduler) add(delay, period time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{
		s:      s,
		at:     s.now + delay,
		period: period,
		fn:     fn,
		seq:    s.seq,
		index:  -1,
	}
	heap.Push(&s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due.
// Callbacks may schedule or stop timers, including themselves. Returns the
// number of callbacks run.
func (s *Scheduler) Advance(d time.Duration) int {
	target := s.now + d
	fired := 0

	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.at > target {
			break
		}

		s.now = next.at
		if next.period > 0 {
			next.at += next.period
			heap.Fix(&s.timers, next.index)
		} else {
			heap.Pop(&s.timers)
		}

		next.fn()
		fired++
	}

	s.now = target
	return fired
}

// Stop cancels the timer. It returns false if the timer had already fired
// (one-shot) or was already stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.s.timers, t.index)
	return true
}

// Active reports whether the timer is still queued.
func (t *Timer) Active() bool {
	return t != nil && t.index >= 0
}

// timerQueue orders timers by due time, then by creation order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
