package live

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
	matches []cricket.MatchSummary
	err     error
}

func (s *stubSource) LiveMatches(ctx context.Context) ([]cricket.MatchSummary, error) {
	return s.matches, s.err
}

func TestMergeReplacesByKey(t *testing.T) {
	list := []cricket.MatchSummary{
		{MatchID: "M1", Status: "Live"},
		{MatchID: "M2", Status: "Scheduled"},
	}

	merged := Merge(list, cricket.MatchSummary{MatchID: "M1", Status: "Ended"})

	assert.Len(t, merged, 2)
	assert.Equal(t, "M2", merged[0].MatchID)
	assert.Equal(t, "M1", merged[1].MatchID)
	assert.Equal(t, "Ended", merged[1].Status)
}

func TestMergeIsIdempotent(t *testing.T) {
	list := []cricket.MatchSummary{{MatchID: "M1", Status: "Live"}}
	update := cricket.MatchSummary{MatchID: "M1", Status: "Ended"}

	once := Merge(list, update)
	twice := Merge(once, update)

	assert.Equal(t, once, twice)
}

func TestApplySequenceKeepsOneEntryPerKey(t *testing.T) {
	r := NewReconciler(&stubSource{}, "")

	events := []cricket.MatchSummary{
		{MatchID: "M1", Status: "Live"},
		{MatchID: "M2", Status: "Scheduled"},
		{MatchID: "M1", Status: "Ended"},
	}
	for _, e := range events {
		r.Apply(e)
	}

	matches := r.Matches()
	assert.Len(t, matches, 2)

	byID := map[string]string{}
	for _, m := range matches {
		_, dup := byID[m.MatchID]
		assert.False(t, dup, "duplicate entry for %s", m.MatchID)
		byID[m.MatchID] = m.Status
	}
	assert.Equal(t, "Ended", byID["M1"])
	assert.Equal(t, "Scheduled", byID["M2"])
}

func TestApplyIgnoresMissingMatchID(t *testing.T) {
	r := NewReconciler(&stubSource{}, "")
	r.Apply(cricket.MatchSummary{Status: "Live"})

	assert.Empty(t, r.Matches())
}

func TestApplyFiltersOtherTournaments(t *testing.T) {
	r := NewReconciler(&stubSource{}, "ipl")
	r.Apply(cricket.MatchSummary{MatchID: "M1", Tournament: "ipl", Status: "Live"})

	before := r.Matches()
	r.Apply(cricket.MatchSummary{MatchID: "M2", Tournament: "wpl", Status: "Live"})

	assert.Equal(t, before, r.Matches())
}

func TestRefreshReplacesList(t *testing.T) {
	source := &stubSource{matches: []cricket.MatchSummary{
		{MatchID: "M1", Tournament: "ipl"},
		{MatchID: "M2", Tournament: "wpl"},
	}}
	r := NewReconciler(source, "")
	r.Apply(cricket.MatchSummary{MatchID: "M9", Status: "Stale"})

	err := r.Refresh(context.Background())

	assert.NoError(t, err)
	assert.Len(t, r.Matches(), 2)
}

func TestRefreshScopedToTournament(t *testing.T) {
	source := &stubSource{matches: []cricket.MatchSummary{
		{MatchID: "M1", Tournament: "ipl"},
		{MatchID: "M2", Tournament: "wpl"},
	}}
	r := NewReconciler(source, "ipl")

	err := r.Refresh(context.Background())

	assert.NoError(t, err)
	matches := r.Matches()
	assert.Len(t, matches, 1)
	assert.Equal(t, "M1", matches[0].MatchID)
}

func TestRefreshFailureKeepsList(t *testing.T) {
	source := &stubSource{matches: []cricket.MatchSummary{{MatchID: "M1", Status: "Live"}}}
	r := NewReconciler(source, "")
	assert.NoError(t, r.Refresh(context.Background()))

	source.err = errors.New("upstream down")
	err := r.Refresh(context.Background())

	assert.Error(t, err)
	assert.Len(t, r.Matches(), 1)
	assert.Equal(t, "Live", r.Matches()[0].Status)
}

func TestClosedReconcilerDropsEverything(t *testing.T) {
	source := &stubSource{matches: []cricket.MatchSummary{{MatchID: "M1"}}}
	r := NewReconciler(source, "")
	assert.NoError(t, r.Close())

	r.Apply(cricket.MatchSummary{MatchID: "M2", Status: "Live"})
	assert.NoError(t, r.Refresh(context.Background()))

	assert.Empty(t, r.Matches())
}

func TestSubscribeDeliversThroughBus(t *testing.T) {
	bus := push.NewBus()
	r := NewReconciler(&stubSource{}, "")
	err := r.Subscribe(context.Background(), bus)
	assert.NoError(t, err)

	update := cricket.MatchSummary{MatchID: "M1", Status: "Live"}
	assert.NoError(t, bus.Publish(context.Background(), push.MatchChannel, push.EventMatchUpdate, update))

	matches := r.Matches()
	assert.Len(t, matches, 1)
	assert.Equal(t, "M1", matches[0].MatchID)
}

func TestUnsubscribeOnClose(t *testing.T) {
	bus := push.NewBus()
	r := NewReconciler(&stubSource{}, "")
	assert.NoError(t, r.Subscribe(context.Background(), bus))
	assert.NoError(t, r.Close())

	update := cricket.MatchSummary{MatchID: "M1", Status: "Live"}
	assert.NoError(t, bus.Publish(context.Background(), push.MatchChannel, push.EventMatchUpdate, update))

	assert.Empty(t, r.Matches())
}

func TestMalformedEnvelopeIsIgnored(t *testing.T) {
	r := NewReconciler(&stubSource{}, "")
	r.onEvent(json.RawMessage(`{"matchId":`))

	assert.Empty(t, r.Matches())
}

func TestLiveServiceFeeds(t *testing.T) {
	source := &stubSource{matches: []cricket.MatchSummary{
		{MatchID: "M1", Tournament: "ipl"},
		{MatchID: "M2", Tournament: "wpl"},
	}}
	s := NewLiveService(source, []string{"ipl", "wpl"})
	bus := push.NewBus()
	assert.NoError(t, s.Start(context.Background(), bus))
	defer s.Close()

	all, err := s.Matches("")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	ipl, err := s.Matches("ipl")
	assert.NoError(t, err)
	assert.Len(t, ipl, 1)

	_, err = s.Matches("bbl")
	assert.Equal(t, ErrUnknownFeed, err)

	// A pushed update lands on the unscoped feed and the matching
	// tournament feed only.
	update := cricket.MatchSummary{MatchID: "M3", Tournament: "wpl", Status: "Live"}
	assert.NoError(t, bus.Publish(context.Background(), push.MatchChannel, push.EventMatchUpdate, update))

	all, _ = s.Matches("")
	assert.Len(t, all, 3)
	wpl, _ := s.Matches("wpl")
	assert.Len(t, wpl, 2)
	ipl, _ = s.Matches("ipl")
	assert.Len(t, ipl, 1)
}
