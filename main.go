package main

import (
	"context"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	cricket "github.com/crichub/portal-sync/repos/cricket"
	resend "github.com/crichub/portal-sync/repos/resend"

	auth "github.com/crichub/portal-sync/pkg/auth"
	push "github.com/crichub/portal-sync/pkg/push"

	admin "github.com/crichub/portal-sync/services/admin"
	auction "github.com/crichub/portal-sync/services/auction"
	directory "github.com/crichub/portal-sync/services/directory"
	live "github.com/crichub/portal-sync/services/live"
	news "github.com/crichub/portal-sync/services/news"
	sync "github.com/crichub/portal-sync/services/sync"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	port := os.Getenv("PORT")
	allowOrigins := os.Getenv("CORS_HOSTS")
	apiURL := os.Getenv("CRICKET_API_URL")
	amqpURL := os.Getenv("AMQP_URL")
	hostURL := os.Getenv("HOST_URL")

	tournaments := strings.Split(os.Getenv("LIVE_TOURNAMENTS"), ",")
	if len(tournaments) == 1 && tournaments[0] == "" {
		tournaments = []string{"ipl", "wpl"}
	}

	credentialsOption := option.WithCredentialsJSON([]byte(credentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, projectID, credentialsOption)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	firebaseApp, err := firebase.NewApp(ctx, nil, credentialsOption)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	broker, err := push.NewBroker(amqpURL)
	if err != nil {
		log.Fatalf("Failed to connect to the push broker: %v", err)
	}
	defer broker.Close()

	if err := broker.InitializeExchange(); err != nil {
		log.Fatalf("Failed to initialize the push exchange: %v", err)
	}

	cricketService := cricket.NewService(firestoreClient, broker, apiURL)
	resendService := resend.NewService(firestoreClient, hostURL)

	liveService := live.NewLiveService(cricketService, tournaments)
	if err := liveService.Start(ctx, broker); err != nil {
		log.Fatalf("Failed to start the live feeds: %v", err)
	}
	defer liveService.Close()

	newsService := news.NewNewsService(cricketService)
	if err := newsService.Start(ctx, broker); err != nil {
		log.Fatalf("Failed to start the news feed: %v", err)
	}
	defer newsService.Close()

	auctionService, err := auction.NewAuctionService()
	if err != nil {
		log.Fatalf("Failed to load auction data: %v", err)
	}

	directoryService := directory.NewDirectoryService(firestoreClient)
	syncService := sync.NewSyncService(firestoreClient, cricketService)
	adminService := admin.NewAdminService(firestoreClient, firebaseApp, cricketService, resendService)

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowOrigins, ",")
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}

	router := gin.Default()
	router.Use(cors.New(config))

	adminRouter := router.Group("/admin/v1")
	adminRouter.Use(auth.AuthMiddleware(firebaseApp))

	liveRouter := router.Group("/live/v1")
	newsRouter := router.Group("/news/v1")
	auctionRouter := router.Group("/auction/v1")
	directoryRouter := router.Group("/directory/v1")
	syncRouter := router.Group("/sync/v1")

	live.NewHTTPHandler(live.HTTPOptions{
		Service: liveService,
		Router:  liveRouter,
	})

	news.NewHTTPHandler(news.HTTPOptions{
		Service: newsService,
		Router:  newsRouter,
	})

	auction.NewHTTPHandler(auction.HTTPOptions{
		Service: auctionService,
		Router:  auctionRouter,
	})

	directory.NewHTTPHandler(directory.HTTPOptions{
		Service: directoryService,
		Router:  directoryRouter,
	})

	sync.NewHTTPHandler(sync.HTTPOptions{
		Service: syncService,
		Router:  syncRouter,
	})

	admin.NewHTTPHandler(admin.HTTPOptions{
		Service: adminService,
		Router:  adminRouter,
	})

	log.Fatal(router.Run(":" + port))
}
