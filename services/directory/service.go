package directory

import (
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	cricket "github.com/crichub/portal-sync/repos/cricket"
)

// DirectoryService serves the player, team and venue directories plus the
// stored team rankings. Read only; the sync and admin services own the
// writes.
type DirectoryService struct {
	firestoreClient *firestore.Client
}

func NewDirectoryService(firestoreClient *firestore.Client) *DirectoryService {
	return &DirectoryService{firestoreClient: firestoreClient}
}

func (s *DirectoryService) Players(c *gin.Context, page, size int) ([]cricket.Player, int, error) {
	docs, err := s.listDocs(c, "Players")
	if err != nil {
		return nil, 0, err
	}

	all := make([]cricket.Player, 0, len(docs))
	for _, doc := range docs {
		var player cricket.Player
		if err := doc.DataTo(&player); err != nil {
			return nil, 0, consistencyError(doc, err)
		}
		all = append(all, player)
	}

	start, end, totalPages := pageBounds(len(all), page, size)
	return all[start:end], totalPages, nil
}

func (s *DirectoryService) Teams(c *gin.Context, page, size int) ([]cricket.Team, int, error) {
	docs, err := s.listDocs(c, "Teams")
	if err != nil {
		return nil, 0, err
	}

	all := make([]cricket.Team, 0, len(docs))
	for _, doc := range docs {
		var team cricket.Team
		if err := doc.DataTo(&team); err != nil {
			return nil, 0, consistencyError(doc, err)
		}
		all = append(all, team)
	}

	start, end, totalPages := pageBounds(len(all), page, size)
	return all[start:end], totalPages, nil
}

func (s *DirectoryService) Venues(c *gin.Context, page, size int) ([]cricket.Venue, int, error) {
	docs, err := s.listDocs(c, "Venues")
	if err != nil {
		return nil, 0, err
	}

	all := make([]cricket.Venue, 0, len(docs))
	for _, doc := range docs {
		var venue cricket.Venue
		if err := doc.DataTo(&venue); err != nil {
			return nil, 0, consistencyError(doc, err)
		}
		all = append(all, venue)
	}

	start, end, totalPages := pageBounds(len(all), page, size)
	return all[start:end], totalPages, nil
}

// Rankings returns the stored rankings for one format (test, odi, t20).
func (s *DirectoryService) Rankings(c *gin.Context, format string) ([]cricket.TeamRanking, error) {
	docs, err := s.firestoreClient.Collection("Rankings").
		Where("Format", "==", format).
		OrderBy("Rank", firestore.Asc).
		Documents(c).
		GetAll()
	if err != nil {
		log.Printf("Failed to read rankings from Firestore: %v\n", err)
		return nil, err
	}

	rankings := make([]cricket.TeamRanking, 0, len(docs))
	for _, doc := range docs {
		var ranking cricket.TeamRanking
		if err := doc.DataTo(&ranking); err != nil {
			return nil, consistencyError(doc, err)
		}
		rankings = append(rankings, ranking)
	}
	return rankings, nil
}

func (s *DirectoryService) listDocs(c *gin.Context, collection string) ([]*firestore.DocumentSnapshot, error) {
	docs, err := s.firestoreClient.Collection(collection).
		OrderBy("Name", firestore.Asc).
		Documents(c).
		GetAll()
	if err != nil {
		log.Printf("Failed to read %s from Firestore: %v\n", collection, err)
		return nil, err
	}
	return docs, nil
}

func consistencyError(doc *firestore.DocumentSnapshot, err error) error {
	// If this fails, we have an inconsistency error as we control both the
	// data written to Firestore and the shape of our structs.
	return fmt.Errorf(
		"consistency error. Converting %+v to internal struct failed: %w",
		doc,
		err,
	)
}

func pageBounds(total, page, size int) (start, end, totalPages int) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}

	totalPages = (total + size - 1) / size
	start = page * size
	if start >= total {
		return 0, 0, totalPages
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end, totalPages
}
