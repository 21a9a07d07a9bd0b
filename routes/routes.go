package routes

import (
	"log/slog"

	"github.com/agora-forum/api-go/config"
	"github.com/agora-forum/api-go/controllers"
	"github.com/agora-forum/api-go/mailer"
	"github.com/agora-forum/api-go/middleware"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/storage"
	"github.com/agora-forum/api-go/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger
	Mailer mailer.Mailer
	Store  storage.Store
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// Initialize services
	ledger := services.NewRatingLedger(deps.Log)
	likes := services.NewLikeRegistry(deps.DB, ledger, deps.Log)
	posts := services.NewPostService(deps.DB, likes, deps.Log)
	comments := services.NewCommentService(deps.DB, likes, deps.Log)
	categories := services.NewCategoryService(deps.DB, posts, deps.Log)
	accounts := services.NewAccountService(
		deps.DB,
		utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		deps.Mailer,
		services.AccountConfig{BaseURL: cfg.BaseURL, BcryptCost: cfg.BcryptCost},
		deps.Log,
	)

	var google controllers.GoogleAuth
	if cfg.Google != nil {
		google = cfg.Google
	}

	// Initialize controllers
	reporter := &controllers.ErrorReporter{Log: deps.Log, Production: cfg.IsProduction()}
	authController := controllers.NewAuthController(accounts, google, reporter)
	feedController := controllers.NewFeedController(posts, categories, reporter)
	postController := controllers.NewPostController(posts, comments, reporter)
	commentController := controllers.NewCommentController(comments, reporter)
	interactionController := controllers.NewInteractionController(posts, comments, reporter)
	categoryController := controllers.NewCategoryController(categories, reporter)
	userController := controllers.NewUserController(accounts, reporter)
	leaderboardController := controllers.NewLeaderboardController(accounts, reporter)
	uploadController := controllers.NewUploadController(accounts, deps.Store, reporter)
	validationController := controllers.NewValidationController(accounts, reporter)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(accounts))

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	SetupAuthRoutes(api, protected, limiter, authController)
	SetupFeedRoutes(api, protected, feedController)
	SetupPostRoutes(api, protected, postController)
	SetupCommentRoutes(api, protected, commentController)
	SetupInteractionRoutes(api, protected, interactionController)
	SetupCategoryRoutes(api, admin, categoryController)
	SetupUserRoutes(api, admin, userController, leaderboardController)
	SetupUploadRoutes(protected, uploadController)
	SetupValidationRoutes(api, validationController)
}
