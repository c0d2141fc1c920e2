package signal

type task struct {
	fn        func()
	cancelled bool
}

// Queue holds work deferred to the next tick of a single-threaded loop.
type Queue struct {
	tasks []*task
}

// Schedule queues fn for the next RunPending and returns the function that
// cancels it. Cancelling a task that already ran does nothing.
func (q *Queue) Schedule(fn func()) (cancel func()) {
	t := &task{fn: fn}
	q.tasks = append(q.tasks, t)
	return func() {
		t.cancelled = true
	}
}

// RunPending runs the tasks queued before the call and returns how many ran.
// Tasks scheduled while it runs belong to the following tick.
func (q *Queue) RunPending() int {
	batch := q.tasks
	q.tasks = nil
	ran := 0
	for _, t := range batch {
		if t.cancelled {
			continue
		}
		t.cancelled = true
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of queued tasks that have not been cancelled.
func (q *Queue) Pending() int {
	n := 0
	for _, t := range q.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}
