package push

import (
	"context"
	"encoding/json"
)

// Channel and event names shared with the portal frontend.
const (
	MatchChannel = "match-channel"
	NewsChannel  = "news-channel"

	EventMatchUpdate = "match-update"
	EventNewsUpdate  = "news-update"
	EventNewsDeleted = "news-deleted"
)

// Envelope is the wire form of one push notification. Data carries the full
// updated entity, or just an identifier for deletions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler receives the payload of one event. Handlers on the same
// subscription are invoked one at a time, in arrival order.
type Handler func(data json.RawMessage)

// Unsubscribe tears down a subscription. Calling it more than once is safe.
type Unsubscribe func() error

// Subscriber delivers named events from a named channel.
type Subscriber interface {
	Subscribe(ctx context.Context, channel, event string, h Handler) (Unsubscribe, error)
}

// Publisher sends named events on a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, data interface{}) error
}
