package news

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/crichub/portal-sync/pkg/push"
	cricket "github.com/crichub/portal-sync/repos/cricket"
)

// NewsSource is the bulk-fetch collaborator behind the news feed.
type NewsSource interface {
	LatestNews(ctx context.Context) ([]cricket.NewsItem, error)
}

// NewsService keeps the portal news feed current: one bulk load, then
// news-update events replace-or-append by article id and news-deleted
// events remove by id.
type NewsService struct {
	source NewsSource

	mu           sync.Mutex
	items        []cricket.NewsItem
	closed       bool
	unsubscribes []push.Unsubscribe
}

func NewNewsService(source NewsSource) *NewsService {
	return &NewsService{source: source}
}

// Start performs the initial load and binds both news events. A failed
// initial load is logged; the feed still converges from the stream.
func (s *NewsService) Start(ctx context.Context, subscriber push.Subscriber) error {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("Initial news load failed: %v\n", err)
	}

	updateUnsub, err := subscriber.Subscribe(ctx, push.NewsChannel, push.EventNewsUpdate, s.onUpdate)
	if err != nil {
		return err
	}
	deleteUnsub, err := subscriber.Subscribe(ctx, push.NewsChannel, push.EventNewsDeleted, s.onDelete)
	if err != nil {
		updateUnsub()
		return err
	}

	s.mu.Lock()
	s.unsubscribes = append(s.unsubscribes, updateUnsub, deleteUnsub)
	s.mu.Unlock()
	return nil
}

// Refresh replaces the feed with one bulk fetch; on failure the current
// feed is kept and the error returned.
func (s *NewsService) Refresh(ctx context.Context) error {
	items, err := s.source.LatestNews(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.items = items
	return nil
}

func (s *NewsService) onUpdate(data json.RawMessage) {
	var item cricket.NewsItem
	if err := json.Unmarshal(data, &item); err != nil {
		log.Printf("Ignoring malformed news update: %v\n", err)
		return
	}
	s.ApplyUpdate(item)
}

func (s *NewsService) onDelete(data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("Ignoring malformed news deletion: %v\n", err)
		return
	}
	s.ApplyDelete(payload.ID)
}

// ApplyUpdate replaces any article with the same id and appends otherwise.
// Updates without an id are dropped.
func (s *NewsService) ApplyUpdate(item cricket.NewsItem) {
	if item.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	kept := make([]cricket.NewsItem, 0, len(s.items)+1)
	for _, existing := range s.items {
		if existing.ID != item.ID {
			kept = append(kept, existing)
		}
	}
	s.items = append(kept, item)
}

// ApplyDelete removes the article with the given id, if present.
func (s *NewsService) ApplyDelete(id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	kept := make([]cricket.NewsItem, 0, len(s.items))
	for _, existing := range s.items {
		if existing.ID != id {
			kept = append(kept, existing)
		}
	}
	s.items = kept
}

// Page returns one page of the feed and the total page count.
func (s *NewsService) Page(page, size int) ([]cricket.NewsItem, int) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	totalPages := (len(s.items) + size - 1) / size
	start := page * size
	if start >= len(s.items) {
		return []cricket.NewsItem{}, totalPages
	}
	end := start + size
	if end > len(s.items) {
		end = len(s.items)
	}

	out := make([]cricket.NewsItem, end-start)
	copy(out, s.items[start:end])
	return out, totalPages
}

func (s *NewsService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	unsubscribes := s.unsubscribes
	s.unsubscribes = nil
	s.mu.Unlock()

	var firstErr error
	for _, unsubscribe := range unsubscribes {
		if err := unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
