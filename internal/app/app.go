package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"termophysics_backend/internal/config"
	"termophysics_backend/internal/controller"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/service"
	"termophysics_backend/pkg/database"
	"termophysics_backend/pkg/logger"
	"termophysics_backend/pkg/monitoring"
	"termophysics_backend/pkg/security"
	"termophysics_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	classroom    *repository.ClassroomRepository
	assignment   *repository.AssignmentRepository
	note         *repository.NoteRepository
	quiz         *repository.QuizRepository
	conversation *repository.ConversationRepository
}

type services struct {
	storage      *service.StorageService
	auth         *service.AuthService
	user         *service.UserService
	classroom    *service.ClassroomService
	assignment   *service.AssignmentService
	note         *service.NoteService
	quiz         *service.QuizService
	ai           *service.AIService
	conversation *service.ConversationService
	image        *service.ImageService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	classroom  *controller.ClassroomController
	assignment *controller.AssignmentController
	note       *controller.NoteController
	quiz       *controller.QuizController
	chat       *controller.ChatController
	image      *controller.ImageController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		classroom:    repository.NewClassroomRepository(db),
		assignment:   repository.NewAssignmentRepository(db),
		note:         repository.NewNoteRepository(db),
		quiz:         repository.NewQuizRepository(db),
		conversation: repository.NewConversationRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.classroom = service.NewClassroomService(repos.classroom)
	s.assignment = service.NewAssignmentService(repos.assignment, s.storage, s.classroom)
	s.note = service.NewNoteService(repos.note, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, s.classroom)
	s.ai = service.NewAIService(cfg.AI)
	s.conversation = service.NewConversationService(repos.conversation, s.ai)
	s.image = service.NewImageService(cfg.ImageGen, rdb, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		classroom:  controller.NewClassroomController(s.classroom),
		assignment: controller.NewAssignmentController(s.assignment, s.classroom),
		note:       controller.NewNoteController(s.note, s.classroom),
		quiz:       controller.NewQuizController(s.quiz, s.classroom),
		chat:       controller.NewChatController(s.conversation),
		image:      controller.NewImageController(s.image, s.conversation),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis only backs caches and quotas; run degraded without it.
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("termophysics", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
