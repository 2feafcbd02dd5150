package extconfig

import (
	"context"
	"sync"
)

// broadcaster fans change events out to subscribers. Slow subscribers miss
// events rather than block writers.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan ChangeEvent
	nextID uint64
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[uint64]chan ChangeEvent)}
}

func (b *broadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		closed := make(chan ChangeEvent)
		close(closed)
		return closed, nil
	}

	ch := make(chan ChangeEvent, 4)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

func (b *broadcaster) Publish(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
