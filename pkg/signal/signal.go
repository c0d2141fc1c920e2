// Package signal provides the event plumbing hosts use to drive drops:
// synchronous signals with cancellable subscriptions and a next-tick queue.
package signal

type subscriber struct {
	fn     func()
	active bool
}

// Signal fans an event out to its subscribers, synchronously and in
// subscription order.
type Signal struct {
	subs []*subscriber
}

// Subscribe adds fn and returns the function that removes it. The returned
// function may be called any number of times.
func (s *Signal) Subscribe(fn func()) (cancel func()) {
	sub := &subscriber{fn: fn, active: true}
	s.subs = append(s.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, v := range s.subs {
			if v == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber. A subscriber cancelled by an earlier one during
// the same Emit is skipped; one added during Emit waits for the next.
func (s *Signal) Emit() {
	snapshot := make([]*subscriber, len(s.subs))
	copy(snapshot, s.subs)
	for _, sub := range snapshot {
		if sub.active {
			sub.fn()
		}
	}
}

// Len returns the number of live subscribers.
func (s *Signal) Len() int {
	return len(s.subs)
}
