package services

// RedrawSignal is the wake channel between worker goroutines and the
// render loop. Any number of producers may request a wake; exactly one
// consumer receives them. Wakes that arrive while the consumer is busy
// coalesce into a single pending wake, which is correct because repaints
// are idempotent.
type RedrawSignal struct {
	ch chan struct{}
}

// NewRedrawSignal returns a signal with a single pending-wake slot.
func NewRedrawSignal() *RedrawSignal {
	return &RedrawSignal{ch: make(chan struct{}, 1)}
}

// Wake requests a repaint. It never blocks: if a wake is already
// pending, the request coalesces into it.
func (s *RedrawSignal) Wake() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel the consumer receives wakes from.
func (s *RedrawSignal) C() <-chan struct{} {
	return s.ch
}
