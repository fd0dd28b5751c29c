package surfplay

import (
	"sort"
	"sync"
	"time"
)

// A [Looper] is a single-consumer queue of deferred closures. Tasks can be
// posted from any goroutine, but they only run when the owner calls
// [Looper.RunPending], which on an Ebitengine game means from Update(). That
// keeps every controller callback on the same goroutine without any other
// locking.
type Looper struct {
	mutex sync.Mutex
	now   func() time.Time
	seq   uint64
	tasks []looperTask
}

type looperTask struct {
	due time.Time
	seq uint64 // tie breaker, keeps FIFO order for equal due times
	fn  func()
}

// Creates a new [Looper]. If now is nil, [time.Now] is used. Tests
// typically pass a manually advanced clock.
func NewLooper(now func() time.Time) *Looper {
	if now == nil {
		now = time.Now
	}
	return &Looper{now: now}
}

// Queues fn to run on the next [Looper.RunPending] call.
func (l *Looper) Post(fn func()) {
	l.PostDelayed(fn, 0)
}

// Queues fn to run on the first [Looper.RunPending] call made once
// the given delay has elapsed. Negative delays are treated as zero.
func (l *Looper) PostDelayed(fn func(), delay time.Duration) {
	if fn == nil {
		panic("nil looper task")
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.seq += 1
	l.tasks = append(l.tasks, looperTask{
		due: l.now().Add(max(delay, 0)),
		seq: l.seq,
		fn:  fn,
	})
}

// Runs all the tasks that are already due, in due order, and returns how
// many ran. Tasks posted by the running tasks themselves are left for the
// next call, so a task rescheduling itself with no delay can't starve the
// caller.
func (l *Looper) RunPending() int {
	l.mutex.Lock()
	now := l.now()
	due := l.noLockTakeDue(now)
	l.mutex.Unlock()

	for _, task := range due {
		task.fn()
	}
	return len(due)
}

// Returns the number of queued tasks, due or not.
func (l *Looper) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.tasks)
}

// Drops all queued tasks without running them.
func (l *Looper) Clear() {
	l.mutex.Lock()
	l.tasks = l.tasks[:0]
	l.mutex.Unlock()
}

func (l *Looper) noLockTakeDue(now time.Time) []looperTask {
	var due []looperTask
	kept := l.tasks[:0]
	for _, task := range l.tasks {
		if task.due.After(now) {
			kept = append(kept, task)
		} else {
			due = append(due, task)
		}
	}
	// clear the tail so dropped closures can be collected
	for i := len(kept); i < len(l.tasks); i++ {
		l.tasks[i] = looperTask{}
	}
	l.tasks = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	return due
}
