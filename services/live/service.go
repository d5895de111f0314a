package live

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/crichub/portal-sync/pkg/push"
	cricket "github.com/crichub/portal-sync/repos/cricket"
)

var ErrUnknownFeed = errors.New("unknown live feed")

// MatchSource is the bulk-fetch collaborator behind a live feed.
type MatchSource interface {
	LiveMatches(ctx context.Context) ([]cricket.MatchSummary, error)
}

// Reconciler keeps one page's match list consistent with the latest known
// state: an initial bulk load, then match-update events merged in by match
// id. A reconciler scoped to a tournament drops events for other
// tournaments.
type Reconciler struct {
	source     MatchSource
	tournament string

	mu          sync.Mutex
	matches     []cricket.MatchSummary
	closed      bool
	unsubscribe push.Unsubscribe
}

func NewReconciler(source MatchSource, tournament string) *Reconciler {
	return &Reconciler{
		source:     source,
		tournament: tournament,
	}
}

// Refresh replaces the whole list with the result of one bulk fetch. On
// failure the existing list is left untouched and the error is returned; no
// retry is attempted. A response landing after Close is discarded.
func (r *Reconciler) Refresh(ctx context.Context) error {
	matches, err := r.source.LiveMatches(ctx)
	if err != nil {
		return err
	}

	if r.tournament != "" {
		scoped := make([]cricket.MatchSummary, 0, len(matches))
		for _, m := range matches {
			if m.Tournament == r.tournament {
				scoped = append(scoped, m)
			}
		}
		matches = scoped
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.matches = matches
	return nil
}

// Subscribe binds the reconciler to the match push channel. Must be paired
// with Close so no handler outlives the feed.
func (r *Reconciler) Subscribe(ctx context.Context, subscriber push.Subscriber) error {
	unsubscribe, err := subscriber.Subscribe(ctx, push.MatchChannel, push.EventMatchUpdate, r.onEvent)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) onEvent(data json.RawMessage) {
	var update cricket.MatchSummary
	if err := json.Unmarshal(data, &update); err != nil {
		log.Printf("Ignoring malformed match update: %v\n", err)
		return
	}
	r.Apply(update)
}

// Apply merges one update into the list: every entry with a different match
// id is kept and the update is appended, so the event fully supersedes the
// previous entry for that key. Updates without a match id and updates for
// another tournament are dropped unchanged.
func (r *Reconciler) Apply(update cricket.MatchSummary) {
	if update.MatchID == "" {
		return
	}
	if r.tournament != "" && update.Tournament != r.tournament {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.matches = Merge(r.matches, update)
}

// Matches returns a copy of the current list.
func (r *Reconciler) Matches() []cricket.MatchSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]cricket.MatchSummary, len(r.matches))
	copy(out, r.matches)
	return out
}

// Close unsubscribes and marks the reconciler dead. Late events and late
// bulk responses become no-ops.
func (r *Reconciler) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	unsubscribe := r.unsubscribe
	r.mu.Unlock()

	if unsubscribe != nil {
		return unsubscribe()
	}
	return nil
}

// Merge returns all entries of list whose match id differs from the
// update's, with the update appended.
func Merge(list []cricket.MatchSummary, update cricket.MatchSummary) []cricket.MatchSummary {
	merged := make([]cricket.MatchSummary, 0, len(list)+1)
	for _, m := range list {
		if m.MatchID != update.MatchID {
			merged = append(merged, m)
		}
	}
	return append(merged, update)
}

// LiveService owns one reconciler per portal page: the unscoped live-score
// feed plus one feed per configured tournament tag.
type LiveService struct {
	feeds map[string]*Reconciler
}

func NewLiveService(source MatchSource, tournaments []string) *LiveService {
	feeds := map[string]*Reconciler{
		"": NewReconciler(source, ""),
	}
	for _, tag := range tournaments {
		feeds[tag] = NewReconciler(source, tag)
	}
	return &LiveService{feeds: feeds}
}

// Start performs the initial bulk load and subscribes every feed. A failed
// initial load is logged and left for a later Refresh; the push stream is
// still attached so the feed converges as events arrive.
func (s *LiveService) Start(ctx context.Context, subscriber push.Subscriber) error {
	for tag, feed := range s.feeds {
		if err := feed.Refresh(ctx); err != nil {
			log.Printf("Initial match load failed for feed %q: %v\n", tag, err)
		}
		if err := feed.Subscribe(ctx, subscriber); err != nil {
			return err
		}
	}
	return nil
}

func (s *LiveService) Close() error {
	var firstErr error
	for _, feed := range s.feeds {
		if err := feed.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Matches returns the current list for a feed; tournament "" is the
// unscoped live-score feed.
func (s *LiveService) Matches(tournament string) ([]cricket.MatchSummary, error) {
	feed, ok := s.feeds[tournament]
	if !ok {
		return nil, ErrUnknownFeed
	}
	return feed.Matches(), nil
}

// Refresh re-runs the bulk fetch for a feed, replacing its list.
func (s *LiveService) Refresh(ctx context.Context, tournament string) error {
	feed, ok := s.feeds[tournament]
	if !ok {
		return ErrUnknownFeed
	}
	return feed.Refresh(ctx)
}
