package resend

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	resend "github.com/resend/resend-go/v2"
)

// Service mails editor invites and records who holds access to each
// tournament's admin desk.
type Service struct {
	firestoreClient *firestore.Client
	resendClient    *resend.Client
	hostURL         string
}

func NewService(firestoreClient *firestore.Client, hostURL string) *Service {
	resendKey := os.Getenv("RESEND_KEY")
	return &Service{
		firestoreClient: firestoreClient,
		resendClient:    resend.NewClient(resendKey),
		hostURL:         hostURL,
	}
}

func (s Service) SendMail(ctx context.Context, request AccessRequest, accessCode string) error {
	body := getEmailTemplate(fmt.Sprintf("%s/get-access/%s", s.hostURL, accessCode))
	params := &resend.SendEmailRequest{
		From:    "desk@crichub.dev",
		To:      []string{request.Email},
		Subject: "Your editor access",
		Html:    body,
	}

	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send mail request: %v", err)
		return err
	}
	return nil
}

// GrantAccess adds the user to the desk's allowed editors, transactionally
// so concurrent grants don't drop each other.
func (s Service) GrantAccess(ctx context.Context, tag, userID string) error {
	docRef := s.firestoreClient.Collection("EditorDesks").Doc(tag)

	err := s.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var allowedUsers []string
		if data, err := doc.DataAt("allowedUsers"); err == nil {
			if users, ok := data.([]interface{}); ok {
				for _, user := range users {
					if userStr, ok := user.(string); ok {
						allowedUsers = append(allowedUsers, userStr)
					}
				}
			}
		}

		for _, user := range allowedUsers {
			if user == userID {
				// User already has access, nothing to update.
				return nil
			}
		}

		updatedUsers := append(allowedUsers, userID)
		return tx.Update(docRef, []firestore.Update{
			{Path: "allowedUsers", Value: updatedUsers},
		})
	})
	if err != nil {
		log.Printf("Failed to update document: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(url string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        .button {
            display: block;
            width: 200px;
            height: 50px;
            margin: 20px auto;
            background-color: #007BFF;
            color: #ffffff;
            font-size: 16px;
            text-align: center;
            line-height: 50px;
            text-decoration: none;
            border-radius: 5px;
        }
        .button:hover {
            background-color: #0056b3;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hello,</h2>
        <p>You have been invited to the admin desk. Click the button below to claim your access:</p>
        <a href="%s" class="button">Claim access</a>
        <p>Best regards,<br>The CricHub team</p>
    </div>
</body>
</html>`, url)
}
