package sync

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/xorcare/pointer"

	"github.com/crichub/portal-sync/pkg/timehelper"
	cricket "github.com/crichub/portal-sync/repos/cricket"
)

type SyncService struct {
	firestoreClient *firestore.Client
	cricketService  *cricket.Service
}

func NewSyncService(firestoreClient *firestore.Client, cricketService *cricket.Service) *SyncService {
	return &SyncService{
		firestoreClient: firestoreClient,
		cricketService:  cricketService,
	}
}

// SyncTournamentMatches kicks off an async incremental pull for one
// tournament. Requests are throttled to one every 30 seconds per
// tournament unless force is set; curated tournaments are never synced.
func (s *SyncService) SyncTournamentMatches(c *gin.Context, tag string, force bool) error {
	if s.cricketService.IsCustomTournament(c, tag) {
		log.Printf("Don't sync custom tournament\n")
		return nil
	}

	t := time.Now()
	now := timehelper.FormatSyncTime(t)
	// The next incremental window starts a little early so updates racing
	// this sync are not missed.
	nowMargin := timehelper.FormatSyncTime(t.Add(-10 * time.Minute))

	ctx := context.Background()
	lastSync := s.cricketService.GetLastSynced(ctx, tag)
	lastReq := s.cricketService.GetLastRequest(ctx, tag)

	var sinceLastReq time.Duration
	if lastReq != "" {
		lastRequestTime, err := timehelper.ParseSyncTime(lastReq)
		if err != nil {
			log.Printf("Could not parse last request time %q: %v\n", lastReq, err)
		} else {
			sinceLastReq = t.Sub(lastRequestTime)
		}
	}

	if lastReq != "" && sinceLastReq < 30*time.Second && !force {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Seconds since last req: %s", sinceLastReq),
		})
		return nil
	}

	s.cricketService.SetLastRequest(ctx, tag, now)
	go s.cricketService.FetchMatches(ctx, tag, lastSync, nowMargin)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Async function started sync from lastSync: %s", lastSync),
	})
	return nil
}

// UpdateCustomTournament replaces a curated tournament's matches.
func (s *SyncService) UpdateCustomTournament(c *gin.Context, tag string, tournament cricket.CustomTournament) error {
	go s.cricketService.ProcessCustomTournament(context.Background(), tag, tournament)
	return nil
}

// CreateIfNoExisting seeds the curated tournament document.
func (s *SyncService) CreateIfNoExisting(c *gin.Context, tag string) error {
	tournament := cricket.Tournament{
		ID:        pointer.Int(0),
		Name:      pointer.String(tag),
		Tag:       pointer.String(tag),
		StartDate: pointer.String(timehelper.GetTodaysDateString()),
		Type:      pointer.String("Custom"),
	}

	s.cricketService.SetCustomTournament(c, tournament)
	return nil
}
