package event

import (
	"sync"
	"time"
)

// Poller blocks for at most the given timeout waiting for an input
// event. ok is false when the timeout elapsed without input.
type Poller interface {
	Poll(timeout time.Duration) (ev Event, ok bool, err error)
}

// sourceBuffer keeps the producer from blocking under normal operation;
// input events queue rather than being dropped if the consumer lags.
const sourceBuffer = 128

// Source runs a background producer that forwards input events and
// emits a Tick whenever the tick interval elapses without input. Events
// reach the single consumer in production order.
type Source struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
	tick   time.Duration
}

// NewSource starts the background producer. The tick interval doubles
// as the poll timeout and the auto-refresh cadence.
func NewSource(poller Poller, tick time.Duration) *Source {
	s := &Source{
		events: make(chan Event, sourceBuffer),
		done:   make(chan struct{}),
		tick:   tick,
	}
	go s.run(poller)
	return s
}

// Events is the consumer end of the stream.
func (s *Source) Events() <-chan Event { return s.events }

// Post injects an event from an auxiliary producer (e.g. the refresh
// scheduler) into the same FIFO stream.
func (s *Source) Post(ev Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Close signals the producer to stop. It exits within one tick interval.
func (s *Source) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Source) run(poller Poller) {
	for {
		select {
		case <-s.done:
			return
		default:
		}

		ev, ok, err := poller.Poll(s.tick)
		if err != nil {
			// Transient input failures must not kill the dashboard:
			// treat the cycle as a timeout. Wait out the interval so a
			// poller that fails fast cannot spin.
			select {
			case <-time.After(s.tick):
			case <-s.done:
				return
			}
			ok = false
		}
		if !ok {
			ev = Event{Type: TypeTick}
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
