package progression

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task.
type TaskID int

type task struct {
	id    TaskID
	gen   uint64
	due   time.Time
	every time.Duration
	fn    func(now time.Time)
}

// Scheduler is a tick-driven queue of delayed and repeating tasks. It never
// starts goroutines: tasks run inside Advance, on the caller's loop.
//
// CancelAll bumps the generation so tasks queued before the call can never
// fire, even if Advance is already iterating over them.
type Scheduler struct {
	gen    uint64
	nextID TaskID
	tasks  []*task
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After runs fn once at now+d.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func(now time.Time)) TaskID {
	return s.add(now.Add(d), 0, fn)
}

// Every runs fn at now+d and then every d until cancelled.
func (s *Scheduler) Every(now time.Time, d time.Duration, fn func(now time.Time)) TaskID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(now.Add(d), d, fn)
}

func (s *Scheduler) add(due time.Time, every time.Duration, fn func(time.Time)) TaskID {
	s.nextID++
	s.tasks = append(s.tasks, &task{id: s.nextID, gen: s.gen, due: due, every: every, fn: fn})
	return s.nextID
}

// Cancel removes a single task. Unknown ids are ignored.
func (s *Scheduler) Cancel(id TaskID) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CancelAll drops every outstanding task.
func (s *Scheduler) CancelAll() {
	s.gen++
	s.tasks = nil
}

// Generation returns the current generation counter.
func (s *Scheduler) Generation() uint64 {
	return s.gen
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance runs every task due at or before now, in due order, and returns
// how many fired. Repeating tasks are rescheduled from their due time.
func (s *Scheduler) Advance(now time.Time) int {
	gen := s.gen
	fired := 0

	for {
		if s.gen != gen {
			return fired
		}
		due := s.dueTasks(now)
		if len(due) == 0 {
			return fired
		}
		for _, t := range due {
			if s.gen != gen || t.gen != gen {
				return fired
			}
			if !s.contains(t.id) {
				continue
			}
			if t.every > 0 {
				t.due = t.due.Add(t.every)
			} else {
				s.Cancel(t.id)
			}
			t.fn(now)
			fired++
		}
	}
}

func (s *Scheduler) dueTasks(now time.Time) []*task {
	var due []*task
	for _, t := range s.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].due.Before(due[j].due) })
	return due
}

func (s *Scheduler) contains(id TaskID) bool {
	for _, t := range s.tasks {
		if t.id == id {
			return true
		}
	}
	return false
}
