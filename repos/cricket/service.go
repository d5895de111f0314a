package cricket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"

	"github.com/crichub/portal-sync/pkg/push"
)

// Service talks to the upstream cricket API and mirrors its entities into
// Firestore. Every match that is created or updated during a sync is also
// published on the match push channel.
type Service struct {
	Client    *firestore.Client
	Publisher push.Publisher
	BaseURL   string

	httpClient *http.Client
}

func NewService(client *firestore.Client, publisher push.Publisher, baseURL string) *Service {
	return &Service{
		Client:     client,
		Publisher:  publisher,
		BaseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (s *Service) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", os.Getenv("CRICKET_API_KEY"))

	response, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("API request returned status %d", response.StatusCode)
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}

// LiveMatches is the bulk fetch backing the live pages: one GET for the
// full current list, no paging, no side effects.
func (s *Service) LiveMatches(ctx context.Context) ([]MatchSummary, error) {
	apiURL := fmt.Sprintf("%s/matches/live", s.BaseURL)

	var apiResponse MatchResponse
	if err := s.get(ctx, apiURL, &apiResponse); err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(apiResponse.Data))
	for _, match := range apiResponse.Data {
		summaries = append(summaries, SummaryFromMatch(match))
	}
	return summaries, nil
}

// LatestNews is the bulk fetch backing the news feed.
func (s *Service) LatestNews(ctx context.Context) ([]NewsItem, error) {
	apiURL := fmt.Sprintf("%s/news?limit=50", s.BaseURL)

	var apiResponse NewsResponse
	if err := s.get(ctx, apiURL, &apiResponse); err != nil {
		return nil, err
	}
	return apiResponse.Data, nil
}

// FetchMatches pulls every page of a tournament's matches and merges them
// into Firestore. lastSync narrows the pull to matches updated since the
// previous run.
func (s *Service) FetchMatches(ctx context.Context, tag string, lastSync string, timeNow string) {
	lastPage, err := s.fetchMatchesPage(ctx, 1, tag, lastSync)
	if err != nil {
		log.Printf("Failed to fetch matches for %s: %v\n", tag, err)
		return
	}

	var wg sync.WaitGroup
	for i := 2; i <= lastPage; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			if _, err := s.fetchMatchesPage(ctx, page, tag, lastSync); err != nil {
				log.Printf("Failed to fetch matches page %d for %s: %v\n", page, tag, err)
			}
		}(i)
	}
	wg.Wait()

	s.setLastSynced(ctx, tag, timeNow)
	log.Println("All matches processed")
}

func (s *Service) fetchMatchesPage(ctx context.Context, pageID int, tag string, lastSync string) (int, error) {
	tournamentID, err := s.getTournamentID(ctx, tag)
	if err != nil {
		return 0, fmt.Errorf("did not get tournament id for %s: %w", tag, err)
	}

	apiURL := fmt.Sprintf("%s/tournaments/%d/matches?limit=150&page=%d", s.BaseURL, tournamentID, pageID)
	if lastSync != "" {
		apiURL = fmt.Sprintf("%s&updated=%s", apiURL, lastSync)
	}

	var apiResponse MatchResponse
	if err := s.get(ctx, apiURL, &apiResponse); err != nil {
		return 0, err
	}

	var wg sync.WaitGroup
	matchCh := make(chan Match)

	for _, match := range apiResponse.Data {
		wg.Add(1)
		go s.processMatch(ctx, tag, match, matchCh, &wg)
	}

	go func() {
		wg.Wait()
		close(matchCh)
	}()

	for match := range matchCh {
		log.Printf("Processed match: %s\n", *match.MatchID)
	}

	return apiResponse.Meta.LastPage, nil
}

// processMatch merges one upstream match into the tournament's Matches
// collection and publishes the merged document as a match-update event.
func (s *Service) processMatch(ctx context.Context, tag string, match Match, matchCh chan<- Match, wg *sync.WaitGroup) {
	defer wg.Done()

	if match.MatchID == nil || *match.MatchID == "" {
		log.Printf("Skipping match without an id in tournament %s\n", tag)
		return
	}

	docRef := s.Client.Collection("Tournaments").Doc(tag).Collection("Matches").Doc(*match.MatchID)
	doc, _ := docRef.Get(ctx)

	if doc.Exists() {
		updates := createMatchUpdates(&match)
		if _, err := docRef.Update(ctx, updates); err != nil {
			log.Printf("Failed to update match in Firestore: %v\n", err)
			return
		}
	} else {
		if _, err := docRef.Set(ctx, SummaryFromMatch(match)); err != nil {
			log.Printf("Failed to write match to Firestore: %v\n", err)
			return
		}
	}

	s.publishMatch(ctx, docRef)
	matchCh <- match
}

// publishMatch reads the stored document back so the event always carries
// the full entity, not just the fields the sync happened to touch.
func (s *Service) publishMatch(ctx context.Context, docRef *firestore.DocumentRef) {
	doc, err := docRef.Get(ctx)
	if err != nil {
		log.Printf("Failed to read back match for publishing: %v\n", err)
		return
	}

	var summary MatchSummary
	if err := doc.DataTo(&summary); err != nil {
		log.Printf("Could not parse stored match: %v\n", err)
		return
	}
	if err := s.Publisher.Publish(ctx, push.MatchChannel, push.EventMatchUpdate, summary); err != nil {
		log.Printf("Failed to publish match update: %v\n", err)
	}
}

// PublishNewsUpdate pushes the full article on the news channel.
func (s *Service) PublishNewsUpdate(ctx context.Context, item NewsItem) {
	if err := s.Publisher.Publish(ctx, push.NewsChannel, push.EventNewsUpdate, item); err != nil {
		log.Printf("Failed to publish news update: %v\n", err)
	}
}

// PublishNewsDeleted pushes only the article id.
func (s *Service) PublishNewsDeleted(ctx context.Context, id string) {
	payload := map[string]string{"id": id}
	if err := s.Publisher.Publish(ctx, push.NewsChannel, push.EventNewsDeleted, payload); err != nil {
		log.Printf("Failed to publish news deletion: %v\n", err)
	}
}

func (s *Service) getTournamentID(ctx context.Context, tag string) (int, error) {
	var tournament Tournament

	doc, err := s.Client.Collection("Tournaments").Doc(tag).Get(ctx)
	if err != nil {
		log.Printf("Failed to get tournament from Firestore: %v\n", err)
		return -1, err
	}

	if err := doc.DataTo(&tournament); err != nil {
		// If this fails, we have an inconsistency error as we control both
		// the data written to Firestore and the shape of our struct.
		log.Printf("Could not parse tournament %v", err)
		return -1, xerrors.Errorf(
			"consistency error. Converting %+v to internal tournament struct failed: %w",
			doc,
			err,
		)
	}
	if tournament.ID == nil {
		return -1, xerrors.Errorf("tournament %s has no upstream id", tag)
	}
	return *tournament.ID, nil
}

// IsCustomTournament reports whether the tournament is curated by hand and
// must never be overwritten by a sync.
func (s *Service) IsCustomTournament(ctx context.Context, tag string) bool {
	doc, err := s.Client.Collection("Tournaments").Doc(tag).Get(ctx)
	if err != nil {
		return false
	}

	var tournament Tournament
	if err := doc.DataTo(&tournament); err != nil {
		return false
	}
	return tournament.Type != nil && *tournament.Type == "Custom"
}

// ProcessCustomTournament writes a hand-curated tournament's matches,
// publishing each one like a regular sync.
func (s *Service) ProcessCustomTournament(ctx context.Context, tag string, tournament CustomTournament) {
	if tournament.Matches == nil {
		return
	}

	var wg sync.WaitGroup
	matchCh := make(chan Match)

	for _, match := range *tournament.Matches {
		wg.Add(1)
		go s.processMatch(ctx, tag, match, matchCh, &wg)
	}

	go func() {
		wg.Wait()
		close(matchCh)
	}()

	for match := range matchCh {
		log.Printf("Processed custom match: %s\n", *match.MatchID)
	}
}

// SetCustomTournament seeds a curated tournament document if none exists.
func (s *Service) SetCustomTournament(ctx context.Context, tournament Tournament) {
	if tournament.Tag == nil {
		return
	}
	docRef := s.Client.Collection("Tournaments").Doc(*tournament.Tag)
	doc, _ := docRef.Get(ctx)
	if doc.Exists() {
		return
	}
	if _, err := docRef.Set(ctx, tournament); err != nil {
		log.Printf("Failed to set tournament in Firestore: %v\n", err)
	}
}

func (s *Service) GetLastSynced(ctx context.Context, tag string) string {
	return s.getTournamentField(ctx, tag, "LastSynced")
}

func (s *Service) GetLastRequest(ctx context.Context, tag string) string {
	return s.getTournamentField(ctx, tag, "LastRequest")
}

func (s *Service) getTournamentField(ctx context.Context, tag, field string) string {
	doc, err := s.Client.Collection("Tournaments").Doc(tag).Get(ctx)
	if err != nil {
		log.Printf("Failed to get tournament from Firestore: %v\n", err)
		return ""
	}

	data := doc.Data()
	fieldValue, ok := data[field]
	if !ok {
		log.Printf("Field %s does not exist in the document.", field)
	}

	fieldValueStr, ok := fieldValue.(string)
	if !ok {
		log.Printf("Failed to convert field %s value to string.", field)
	}
	return fieldValueStr
}

func (s *Service) setLastSynced(ctx context.Context, tag string, lastSynced string) {
	s.setTournamentField(ctx, tag, "LastSynced", lastSynced)
}

func (s *Service) SetLastRequest(ctx context.Context, tag string, lastRequest string) {
	s.setTournamentField(ctx, tag, "LastRequest", lastRequest)
}

func (s *Service) setTournamentField(ctx context.Context, tag, field, value string) {
	_, err := s.Client.Collection("Tournaments").Doc(tag).Update(ctx, []firestore.Update{
		{
			Path:  field,
			Value: value,
		},
	})
	if err != nil {
		log.Printf("An error has occurred: %v", err)
	}
}

// SummaryFromMatch flattens a pointer-typed upstream match, defaulting every
// missing field to its zero value.
func SummaryFromMatch(m Match) MatchSummary {
	summary := MatchSummary{}
	if m.MatchID != nil {
		summary.MatchID = *m.MatchID
	}
	if m.Tournament != nil {
		summary.Tournament = *m.Tournament
	}
	if m.Title != nil {
		summary.Title = *m.Title
	}
	if m.Status != nil {
		summary.Status = *m.Status
	}
	if m.Started != nil {
		summary.Started = *m.Started
	}
	if m.Ended != nil {
		summary.Ended = *m.Ended
	}
	if m.Score != nil {
		summary.Score = *m.Score
	}
	if m.HomeTeam != nil {
		summary.HomeTeam = *m.HomeTeam
	}
	if m.AwayTeam != nil {
		summary.AwayTeam = *m.AwayTeam
	}
	if m.Venue != nil {
		summary.Venue = *m.Venue
	}
	if m.Date != nil {
		summary.Date = *m.Date
	}
	if m.Time != nil {
		summary.Time = *m.Time
	}
	return summary
}

func createMatchUpdates(match *Match) []firestore.Update {
	var updates []firestore.Update

	if match.MatchID != nil {
		updates = append(updates, firestore.Update{Path: "MatchId", Value: *match.MatchID})
	}
	if match.Tournament != nil {
		updates = append(updates, firestore.Update{Path: "Tournament", Value: *match.Tournament})
	}
	if match.Title != nil {
		updates = append(updates, firestore.Update{Path: "Title", Value: *match.Title})
	}
	if match.Status != nil {
		updates = append(updates, firestore.Update{Path: "Status", Value: *match.Status})
	}
	if match.Started != nil {
		updates = append(updates, firestore.Update{Path: "Started", Value: *match.Started})
	}
	if match.Ended != nil {
		updates = append(updates, firestore.Update{Path: "Ended", Value: *match.Ended})
	}
	if match.Score != nil {
		updates = append(updates, firestore.Update{Path: "Score", Value: *match.Score})
	}
	if match.HomeTeam != nil {
		updates = append(updates, firestore.Update{Path: "HomeTeam", Value: *match.HomeTeam})
	}
	if match.AwayTeam != nil {
		updates = append(updates, firestore.Update{Path: "AwayTeam", Value: *match.AwayTeam})
	}
	if match.Venue != nil {
		updates = append(updates, firestore.Update{Path: "Venue", Value: *match.Venue})
	}
	if match.Date != nil {
		updates = append(updates, firestore.Update{Path: "Date", Value: *match.Date})
	}
	if match.Time != nil {
		updates = append(updates, firestore.Update{Path: "Time", Value: *match.Time})
	}

	return updates
}
