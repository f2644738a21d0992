package resilience

import "sync"

// SingleFlight collapses concurrent calls sharing a key into one execution.
// Followers block until the leader finishes and receive the leader's result
// with shared reported true.
type SingleFlight[T any] struct {
	mu       sync.Mutex
	inFlight map[string]*flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func NewSingleFlight[T any]() *SingleFlight[T] {
	return &SingleFlight[T]{inFlight: make(map[string]*flight[T])}
}

func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if leader, ok := g.inFlight[key]; ok {
		g.mu.Unlock()
		<-leader.done
		return leader.val, leader.err, true
	}
	leader := &flight[T]{done: make(chan struct{})}
	g.inFlight[key] = leader
	g.mu.Unlock()

	leader.val, leader.err = fn()

	g.mu.Lock()
	delete(g.inFlight, key)
	g.mu.Unlock()
	close(leader.done)

	return leader.val, leader.err, false
}
