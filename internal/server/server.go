package server

import (
	"os"
	"strings"
	"time"

	"github.com/cinelog/cinelog-backend/internal/config"
	"github.com/cinelog/cinelog-backend/internal/handler"
	"github.com/cinelog/cinelog-backend/internal/middleware"
	"github.com/cinelog/cinelog-backend/internal/repository"
	"github.com/cinelog/cinelog-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	listRepo := repository.NewListRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Meilisearch
	meiliHost := cfg.MeiliSearchHost
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	gamificationSvc := service.NewGamificationService(gamificationRepo, redisClient, notificationSvc)
	gamificationHandler := handler.NewGamificationHandler(gamificationSvc, userRepo)

	authSvc := service.NewAuthService(userRepo, cfg)
	authHandler := handler.NewAuthHandler(authSvc)

	movieSvc := service.NewMovieService(movieRepo, gamificationSvc, searchSvc)
	movieHandler := handler.NewMovieHandler(movieSvc)

	reviewSvc := service.NewReviewService(reviewRepo, movieRepo, gamificationSvc, notificationSvc, redisClient, cfg.RateLimitReview)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	listSvc := service.NewListService(listRepo, movieRepo, gamificationSvc)
	listHandler := handler.NewListHandler(listSvc)

	commentSvc := service.NewCommentService(commentRepo, reviewRepo, gamificationSvc, notificationSvc, redisClient, cfg.RateLimitComment)
	commentHandler := handler.NewCommentHandler(commentSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/movies", movieHandler.ListMovies)
	api.GET("/movies/search", movieHandler.SearchMovies)
	api.GET("/movies/:id", movieHandler.GetMovie)
	api.GET("/movies/:id/reviews", reviewHandler.GetMovieReviews)
	api.GET("/leaderboard", gamificationHandler.GetLeaderboard)
	api.GET("/users/:username/stats", gamificationHandler.GetUserStats)
	api.GET("/users/:username/badges", gamificationHandler.GetUserBadges)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/movies", movieHandler.CreateMovie)
			adminGroup.POST("/gamification/backfill", gamificationHandler.BackfillBadges)
		}

		// Movie routes
		protected.POST("/movies/:id/watch", movieHandler.MarkWatched)
		protected.GET("/movies/watched", movieHandler.ListWatched)
		protected.POST("/movies/:id/rate", reviewHandler.RateMovie)

		// Review routes
		protected.POST("/reviews/:id/like", reviewHandler.LikeReview)
		protected.POST("/reviews/:id/unlike", reviewHandler.UnlikeReview)
		protected.POST("/reviews/:id/comments", commentHandler.CreateComment)
		protected.GET("/reviews/:id/comments", commentHandler.GetReviewComments)

		// List routes
		protected.POST("/lists", listHandler.CreateList)
		protected.GET("/lists/me", listHandler.GetMyLists)
		protected.GET("/lists/:id", listHandler.GetList)
		protected.POST("/lists/:id/movies", listHandler.AddMovie)
		protected.DELETE("/lists/:id/movies/:movieID", listHandler.RemoveMovie)

		// Gamification routes
		protected.GET("/me/stats", gamificationHandler.GetMyStats)
		protected.GET("/me/level", gamificationHandler.GetMyLevel)
		protected.GET("/me/progress", gamificationHandler.GetMyProgress)
		protected.GET("/me/activity", gamificationHandler.GetMyActivity)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
