package news

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crichub/portal-sync/pkg/push"
	cricket "github.com/crichub/portal-sync/repos/cricket"
)

type stubSource struct {
	items []cricket.NewsItem
	err   error
}

func (s *stubSource) LatestNews(ctx context.Context) ([]cricket.NewsItem, error) {
	return s.items, s.err
}

func TestApplyUpdateReplacesByID(t *testing.T) {
	s := NewNewsService(&stubSource{})
	s.ApplyUpdate(cricket.NewsItem{ID: "n1", Title: "First"})
	s.ApplyUpdate(cricket.NewsItem{ID: "n2", Title: "Second"})
	s.ApplyUpdate(cricket.NewsItem{ID: "n1", Title: "First, revised"})

	content, totalPages := s.Page(0, 10)
	assert.Equal(t, 1, totalPages)
	assert.Len(t, content, 2)
	assert.Equal(t, "n2", content[0].ID)
	assert.Equal(t, "First, revised", content[1].Title)
}

func TestApplyUpdateIgnoresMissingID(t *testing.T) {
	s := NewNewsService(&stubSource{})
	s.ApplyUpdate(cricket.NewsItem{Title: "No id"})

	content, _ := s.Page(0, 10)
	assert.Empty(t, content)
}

func TestApplyDeleteRemovesByID(t *testing.T) {
	s := NewNewsService(&stubSource{})
	s.ApplyUpdate(cricket.NewsItem{ID: "n1"})
	s.ApplyUpdate(cricket.NewsItem{ID: "n2"})
	s.ApplyDelete("n1")

	content, _ := s.Page(0, 10)
	assert.Len(t, content, 1)
	assert.Equal(t, "n2", content[0].ID)
}

func TestRefreshFailureKeepsFeed(t *testing.T) {
	source := &stubSource{items: []cricket.NewsItem{{ID: "n1"}}}
	s := NewNewsService(source)
	assert.NoError(t, s.Refresh(context.Background()))

	source.err = errors.New("upstream down")
	err := s.Refresh(context.Background())

	assert.Error(t, err)
	content, _ := s.Page(0, 10)
	assert.Len(t, content, 1)
}

func TestPagePagination(t *testing.T) {
	s := NewNewsService(&stubSource{})
	for _, id := range []string{"n1", "n2", "n3", "n4", "n5"} {
		s.ApplyUpdate(cricket.NewsItem{ID: id})
	}

	first, totalPages := s.Page(0, 2)
	assert.Equal(t, 3, totalPages)
	assert.Len(t, first, 2)

	last, _ := s.Page(2, 2)
	assert.Len(t, last, 1)
	assert.Equal(t, "n5", last[0].ID)

	past, _ := s.Page(5, 2)
	assert.Empty(t, past)
}

func TestEventsThroughBus(t *testing.T) {
	bus := push.NewBus()
	s := NewNewsService(&stubSource{items: []cricket.NewsItem{{ID: "n1", Title: "Seed"}}})
	assert.NoError(t, s.Start(context.Background(), bus))
	defer s.Close()

	update := cricket.NewsItem{ID: "n1", Title: "Seed, updated"}
	assert.NoError(t, bus.Publish(context.Background(), push.NewsChannel, push.EventNewsUpdate, update))

	content, _ := s.Page(0, 10)
	assert.Len(t, content, 1)
	assert.Equal(t, "Seed, updated", content[0].Title)

	assert.NoError(t, bus.Publish(context.Background(), push.NewsChannel, push.EventNewsDeleted, map[string]string{"id": "n1"}))
	content, _ = s.Page(0, 10)
	assert.Empty(t, content)
}

func TestMalformedEventsAreIgnored(t *testing.T) {
	s := NewNewsService(&stubSource{})
	s.ApplyUpdate(cricket.NewsItem{ID: "n1"})

	s.onUpdate(json.RawMessage(`{"id":`))
	s.onDelete(json.RawMessage(`[1,2]`))
	s.onDelete(json.RawMessage(`{}`))

	content, _ := s.Page(0, 10)
	assert.Len(t, content, 1)
}

func TestCloseStopsEvents(t *testing.T) {
	bus := push.NewBus()
	s := NewNewsService(&stubSource{})
	assert.NoError(t, s.Start(context.Background(), bus))
	assert.NoError(t, s.Close())

	assert.NoError(t, bus.Publish(context.Background(), push.NewsChannel, push.EventNewsUpdate, cricket.NewsItem{ID: "n1"}))

	content, _ := s.Page(0, 10)
	assert.Empty(t, content)
}
