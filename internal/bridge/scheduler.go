package bridge

// Scheduler runs functions on a later turn of the event loop
type Scheduler interface {
	Defer(fn func())
}

// QueueScheduler collects deferred functions until they are drained
type QueueScheduler struct {
	queue []func()
}

// Defer queues fn
func (q *QueueScheduler) Defer(fn func()) {
	q.queue = append(q.queue, fn)
}

// Pending returns the number of queued functions
func (q *QueueScheduler) Pending() int {
	return len(q.queue)
}

// Drain runs queued functions in order, including functions queued while
// draining, and returns how many ran
func (q *QueueScheduler) Drain() int {
	n := 0
	for len(q.queue) > 0 {
		fn := q.queue[0]
		q.queue = q.queue[1:]
		fn()
		n++
	}
	return n
}
