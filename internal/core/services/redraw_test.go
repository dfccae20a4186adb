package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedrawSignal_WakeNeverBlocks(t *testing.T) {
	sig := NewRedrawSignal()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			sig.Wake()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wake blocked with no consumer")
	}
}

func TestRedrawSignal_WakesCoalesce(t *testing.T) {
	sig := NewRedrawSignal()

	sig.Wake()
	sig.Wake()
	sig.Wake()

	// Exactly one wake is pending.
	select {
	case <-sig.C():
	default:
		t.Fatal("expected a pending wake")
	}

	select {
	case <-sig.C():
		t.Fatal("expected wakes to coalesce into one")
	default:
	}
}

func TestRedrawSignal_WakeAfterConsume(t *testing.T) {
	sig := NewRedrawSignal()

	sig.Wake()
	<-sig.C()

	sig.Wake()
	select {
	case <-sig.C():
	case <-time.After(time.Second):
		t.Fatal("expected wake after consuming the previous one")
	}
}

func TestRedrawSignal_ManyProducers(t *testing.T) {
	sig := NewRedrawSignal()

	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for {
				select {
				case <-stop:
					return
				default:
					sig.Wake()
				}
			}
		}()
	}

	// The consumer keeps receiving wakes while producers hammer the signal.
	received := 0
	deadline := time.After(100 * time.Millisecond)
	for received < 10 {
		select {
		case <-sig.C():
			received++
		case <-deadline:
			close(stop)
			t.Fatalf("only received %d wakes", received)
		}
	}
	close(stop)

	assert.GreaterOrEqual(t, received, 10)
}
