package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Bus is an in-process push transport with the same delivery rules as the
// broker: per-subscription event filtering, sequential handler invocation in
// publish order. Used in tests in place of a live RabbitMQ.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]busSub
}

type busSub struct {
	event string
	h     Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]busSub)}
}

func (b *Bus) Subscribe(ctx context.Context, channel, event string, h Handler) (Unsubscribe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]busSub)
	}
	id := b.nextID
	b.nextID++
	b.subs[channel][id] = busSub{event: event, h: h}

	var once sync.Once
	unsubscribe := func() error {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], id)
			b.mu.Unlock()
		})
		return nil
	}
	return unsubscribe, nil
}

func (b *Bus) Publish(ctx context.Context, channel, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	b.mu.Lock()
	var handlers []Handler
	for _, sub := range b.subs[channel] {
		if sub.event == event {
			handlers = append(handlers, sub.h)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}
