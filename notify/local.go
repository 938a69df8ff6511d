package notify

import (
	"context"
	"sync"
)

// LocalBus fans events out to in-process subscribers. A subscriber that
// falls more than Buffer events behind misses events.
type LocalBus struct {
	Buffer int

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{Buffer: 64, subs: map[chan Event]struct{}{}}
}

func (b *LocalBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, b.Buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}
