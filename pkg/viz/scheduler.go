package viz

import (
	"sync"
	"time"
)

// Scheduler runs one-shot deferred callbacks.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler fires callbacks on timer goroutines. When Locker is set the
// callback runs while holding it.
type TimerScheduler struct {
	Locker sync.Locker
}

// After schedules fn to run once after d.
func (t TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		if t.Locker != nil {
			t.Locker.Lock()
			defer t.Locker.Unlock()
		}
		fn()
	})
}

// ManualScheduler queues callbacks until its clock is advanced. It is not
// safe for concurrent use.
type ManualScheduler struct {
	now   time.Duration
	tasks []task
	seq   int
}

type task struct {
	at  time.Duration
	seq int
	fn  func()
}

// After queues fn to run once the clock has advanced by d.
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.seq++
	m.tasks = append(m.tasks, task{at: m.now + d, seq: m.seq, fn: fn})
}

// Advance moves the clock forward by d and runs every callback that came due,
// in due order. Callbacks scheduled while advancing run if they also come due.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		due := m.nextDue(target)
		if due < 0 {
			break
		}
		t := m.tasks[due]
		m.tasks = append(m.tasks[:due], m.tasks[due+1:]...)
		m.now = t.at
		t.fn()
	}
	m.now = target
}

func (m *ManualScheduler) nextDue(target time.Duration) int {
	idx := -1
	for i, t := range m.tasks {
		if t.at > target {
			continue
		}
		if idx < 0 || t.at < m.tasks[idx].at || (t.at == m.tasks[idx].at && t.seq < m.tasks[idx].seq) {
			idx = i
		}
	}
	return idx
}

// Flush runs every pending callback regardless of its delay.
func (m *ManualScheduler) Flush() {
	for len(m.tasks) > 0 {
		last := m.now
		for _, t := range m.tasks {
			last = max(last, t.at)
		}
		m.Advance(last - m.now)
	}
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int { return len(m.tasks) }

// Now returns the scheduler's clock.
func (m *ManualScheduler) Now() time.Duration { return m.now }
