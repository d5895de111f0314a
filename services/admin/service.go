package admin

import (
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	auth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/samborkent/uuidv7"

	access "github.com/crichub/portal-sync/pkg/accesscode"
	cricket "github.com/crichub/portal-sync/repos/cricket"
	resend "github.com/crichub/portal-sync/repos/resend"
)

var (
	ErrInvalidTournamentID = errors.New("tournamentID mismatch")
	ErrInvalidAccessCode   = errors.New("not valid access code")
	ErrMissingArticleID    = errors.New("article id is required")
)

// AdminService is the content back-office: news CRUD plus the editor
// access flow. Every news mutation is pushed on the news channel so open
// portal pages update without a reload.
type AdminService struct {
	firestoreClient *firestore.Client
	firebaseApp     *firebase.App
	cricketService  *cricket.Service
	resendService   *resend.Service
}

func NewAdminService(firestoreClient *firestore.Client, firebaseApp *firebase.App, cricketService *cricket.Service, resendService *resend.Service) *AdminService {
	return &AdminService{
		firestoreClient: firestoreClient,
		firebaseApp:     firebaseApp,
		cricketService:  cricketService,
		resendService:   resendService,
	}
}

// CreateArticle stores a new article and pushes it as a news-update.
func (s *AdminService) CreateArticle(c *gin.Context, item cricket.NewsItem) (string, error) {
	if item.ID == "" {
		item.ID = uuidv7.New().String()
	}

	if _, err := s.firestoreClient.Collection("News").Doc(item.ID).Set(c, item); err != nil {
		log.Printf("Failed to write article to Firestore: %v\n", err)
		return "", err
	}

	s.cricketService.PublishNewsUpdate(c, item)
	return item.ID, nil
}

// UpdateArticle replaces an article and pushes the full updated entity.
func (s *AdminService) UpdateArticle(c *gin.Context, id string, item cricket.NewsItem) error {
	if id == "" {
		return ErrMissingArticleID
	}
	item.ID = id

	if _, err := s.firestoreClient.Collection("News").Doc(id).Set(c, item); err != nil {
		log.Printf("Failed to update article in Firestore: %v\n", err)
		return err
	}

	s.cricketService.PublishNewsUpdate(c, item)
	return nil
}

// DeleteArticle removes an article and pushes a news-deleted with its id.
func (s *AdminService) DeleteArticle(c *gin.Context, id string) error {
	if id == "" {
		return ErrMissingArticleID
	}

	if _, err := s.firestoreClient.Collection("News").Doc(id).Delete(c); err != nil {
		log.Printf("Failed to delete article from Firestore: %v\n", err)
		return err
	}

	s.cricketService.PublishNewsDeleted(c, id)
	return nil
}

// ClaimAccess mails an invite code for a tournament desk and records the
// claiming user.
func (s *AdminService) ClaimAccess(c *gin.Context, request resend.AccessRequest) error {
	token := c.MustGet("token").(*auth.Token)

	doc, err := s.firestoreClient.Collection("EditorDesks").Doc(request.Tag).Get(c)
	if err != nil {
		log.Printf("Failed to get desk from Firestore: %v\n", err)
		return err
	}

	data := doc.Data()

	fieldIDValue, ok := data["ID"]
	if !ok {
		log.Printf("Field ID does not exist in the document.")
	}

	if fieldIDValue != int64(request.TournamentID) {
		fmt.Printf("%v != %d", fieldIDValue, request.TournamentID)
		return ErrInvalidTournamentID
	}

	fieldValue, ok := data["Secret"]
	if !ok {
		log.Printf("Field does not exist in the document.")
	}

	secretString, ok := fieldValue.(string)
	if !ok {
		log.Printf("Failed to convert field value to string.")
	}

	accessCode := access.Encode(request.Tag, secretString)

	if err := s.resendService.SendMail(c, request, accessCode); err != nil {
		return err
	}

	go s.resendService.GrantAccess(c, request.Tag, token.UID)
	return nil
}

// AddDeskAccess validates a decoded invite against the stored secret and
// grants the caller access to the desk.
func (s *AdminService) AddDeskAccess(c *gin.Context, tag, secret string) error {
	token := c.MustGet("token").(*auth.Token)

	doc, err := s.firestoreClient.Collection("EditorDesks").Doc(tag).Get(c)
	if err != nil {
		log.Printf("Failed to get desk from Firestore: %v\n", err)
		return err
	}

	data := doc.Data()
	fieldValue, ok := data["Secret"]
	if !ok {
		log.Printf("Field does not exist in the document.")
	}

	secretString, ok := fieldValue.(string)
	if !ok {
		log.Printf("Failed to convert field value to string.")
	}

	if secret != secretString {
		return ErrInvalidAccessCode
	}
	return s.resendService.GrantAccess(c, tag, token.UID)
}
