package events

import (
	"sync"

	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

// Broker fans history snapshots out to subscribers.
// Each subscriber holds at most one pending snapshot; a newer one replaces it.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan []models.Submission]struct{}
	closed bool
	log    zerolog.Logger
}

// NewBroker creates an empty broker
func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{
		subs: make(map[chan []models.Submission]struct{}),
		log:  log.With().Str("component", "broker").Logger(),
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes the channel.
func (b *Broker) Subscribe() (<-chan []models.Submission, func()) {
	ch := make(chan []models.Submission, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()

	b.log.Debug().Int("subscribers", count).Msg("Subscriber added")

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
}

// Publish delivers a snapshot to every subscriber without blocking
func (b *Broker) Publish(list []models.Submission) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		snapshot := make([]models.Submission, len(list))
		copy(snapshot, list)

		select {
		case ch <- snapshot:
			continue
		default:
		}
		// drop the stale snapshot, keep the latest
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Subscribers returns the current listener count
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects every subscriber
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
