package noise

import "sync"

// listenerSet is an ordered set of callbacks. Callbacks run synchronously
// in registration order.
type listenerSet struct {
	mu    sync.Mutex
	next  uint64
	order []listener
}

type listener struct {
	id uint64
	fn func()
}

func (s *listenerSet) add(fn func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.order = append(s.order, listener{id: s.next, fn: fn})
	return s.next
}

func (s *listenerSet) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.order {
		if l.id == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// notify calls every listener registered at the time of the call.
func (s *listenerSet) notify() {
	s.mu.Lock()
	snapshot := append([]listener(nil), s.order...)
	s.mu.Unlock()
	for _, l := range snapshot {
		l.fn()
	}
}

// Subscription removes its callback when Unsubscribe is called.
type Subscription struct {
	set *listenerSet
	id  uint64
}

func (s Subscription) Unsubscribe() {
	if s.set != nil {
		s.set.remove(s.id)
	}
}
