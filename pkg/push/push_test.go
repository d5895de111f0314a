package push

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversToMatchingSubscribers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var got []string
	_, err := bus.Subscribe(ctx, MatchChannel, EventMatchUpdate, func(data json.RawMessage) {
		got = append(got, string(data))
	})
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(ctx, MatchChannel, EventMatchUpdate, map[string]string{"matchId": "M1"}))
	assert.Len(t, got, 1)
	assert.JSONEq(t, `{"matchId":"M1"}`, got[0])
}

func TestBusFiltersByEventName(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	updates := 0
	deletes := 0
	_, err := bus.Subscribe(ctx, NewsChannel, EventNewsUpdate, func(json.RawMessage) { updates++ })
	assert.NoError(t, err)
	_, err = bus.Subscribe(ctx, NewsChannel, EventNewsDeleted, func(json.RawMessage) { deletes++ })
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(ctx, NewsChannel, EventNewsDeleted, map[string]string{"id": "n1"}))

	assert.Equal(t, 0, updates)
	assert.Equal(t, 1, deletes)
}

func TestBusFiltersByChannel(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	calls := 0
	_, err := bus.Subscribe(ctx, MatchChannel, EventMatchUpdate, func(json.RawMessage) { calls++ })
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(ctx, NewsChannel, EventMatchUpdate, map[string]string{"matchId": "M1"}))

	assert.Equal(t, 0, calls)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	calls := 0
	unsubscribe, err := bus.Subscribe(ctx, MatchChannel, EventMatchUpdate, func(json.RawMessage) { calls++ })
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(ctx, MatchChannel, EventMatchUpdate, map[string]string{"matchId": "M1"}))
	assert.NoError(t, unsubscribe())
	assert.NoError(t, unsubscribe(), "unsubscribe must be safe to call twice")
	assert.NoError(t, bus.Publish(ctx, MatchChannel, EventMatchUpdate, map[string]string{"matchId": "M2"}))

	assert.Equal(t, 1, calls)
}

func TestBusPreservesPublishOrder(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var order []string
	_, err := bus.Subscribe(ctx, MatchChannel, EventMatchUpdate, func(data json.RawMessage) {
		var payload struct {
			MatchID string `json:"matchId"`
		}
		assert.NoError(t, json.Unmarshal(data, &payload))
		order = append(order, payload.MatchID)
	})
	assert.NoError(t, err)

	for _, id := range []string{"M1", "M2", "M1"} {
		assert.NoError(t, bus.Publish(ctx, MatchChannel, EventMatchUpdate, map[string]string{"matchId": id}))
	}

	assert.Equal(t, []string{"M1", "M2", "M1"}, order)
}
