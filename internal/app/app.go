package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qurio_backend/internal/config"
	"qurio_backend/internal/controller"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/service"
	"qurio_backend/pkg/database"
	"qurio_backend/pkg/logger"
	"qurio_backend/pkg/monitoring"
	"qurio_backend/pkg/security"
	"qurio_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	quiz      *repository.QuizRepository
	question  *repository.QuestionRepository
	attempt   *repository.AttemptRepository
	analytics *repository.AnalyticsRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	quiz      *service.QuizService
	question  *service.QuestionService
	attempt   *service.AttemptService
	analytics *service.AnalyticsService
}

type controllers struct {
	auth      *controller.AuthController
	quiz      *controller.QuizController
	question  *controller.QuestionController
	attempt   *controller.AttemptController
	analytics *controller.AnalyticsController
	admin     *controller.AdminController
	upload    *controller.UploadController
	health    *controller.HealthController
}

// RegisterConfigCallback 注册配置热更新回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置文件变更时由 configwatcher 调用
func (a *App) OnConfigReload(cfg *config.Config) {
	logger.Log.Info("Config reloaded",
		zap.Float64("passing_score", cfg.Quiz.PassingScore),
		zap.Int("answer_grace_seconds", cfg.Quiz.AnswerGraceSeconds))
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		quiz:      repository.NewQuizRepository(db),
		question:  repository.NewQuestionRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.quiz = service.NewQuizService(repos.quiz)
	s.question = service.NewQuestionService(repos.question, repos.quiz)
	s.attempt = service.NewAttemptService(repos.attempt, repos.quiz, repos.question, cfg)
	s.analytics = service.NewAnalyticsService(repos.analytics, repos.quiz, repos.user, repos.attempt, rdb, cfg)

	// 及格线支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.analytics.SetPassingScore(newCfg.Quiz.PassingScore)
	})

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		quiz:      controller.NewQuizController(s.quiz),
		question:  controller.NewQuestionController(s.question),
		attempt:   controller.NewAttemptController(s.attempt),
		analytics: controller.NewAnalyticsController(s.analytics),
		admin:     controller.NewAdminController(s.user, s.quiz, s.analytics, repos.quiz),
		upload:    controller.NewUploadController(s.storage),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("qurio-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
