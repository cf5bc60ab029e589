package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	User       *repository.UserRepository
	Course     *repository.CourseRepository
	Enrollment *repository.EnrollmentRepository
	Assignment *repository.AssignmentRepository
	Submission *repository.SubmissionRepository
	Activity   *repository.ActivityLogRepository
}

type Services struct {
	Auth       *service.AuthService
	User       *service.UserService
	Course     *service.CourseService
	Assignment *service.AssignmentService
	Storage    *service.StorageService
	Analytics  *service.AnalyticsService
	Advisor    *service.AdvisorService
	Responder  *service.ResponderService
	Gemini     *service.GeminiService
	Chat       *service.ChatService
	Dashboard  *service.DashboardService
}

type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Course     *controller.CourseController
	Assignment *controller.AssignmentController
	Grade      *controller.GradeController
	Analytics  *controller.AnalyticsController
	Advisor    *controller.AdvisorController
	Chat       *controller.ChatController
	Dashboard  *controller.DashboardController
	Health     *controller.HealthController
}

type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Engine      *gin.Engine
	Services    *Services
	Controllers *Controllers
}

func New(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	repos := &Repositories{
		User:       repository.NewUserRepository(db),
		Course:     repository.NewCourseRepository(db),
		Enrollment: repository.NewEnrollmentRepository(db),
		Assignment: repository.NewAssignmentRepository(db),
		Submission: repository.NewSubmissionRepository(db),
		Activity:   repository.NewActivityLogRepository(db),
	}

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}

	analytics := service.NewAnalyticsService(repos.User, repos.Course, repos.Enrollment, repos.Assignment, repos.Submission, repos.Activity)
	advisor := service.NewAdvisorService()
	responder := service.NewResponderService()
	gemini := service.NewGeminiService(cfg.AI)

	services := &Services{
		Auth:      service.NewAuthService(repos.User, repos.Activity, cfg.JWT),
		User:      service.NewUserService(repos.User),
		Course:    service.NewCourseService(repos.Course, repos.Enrollment, repos.Assignment, repos.Submission, repos.Activity),
		Storage:   storage,
		Analytics: analytics,
		Advisor:   advisor,
		Responder: responder,
		Gemini:    gemini,
		Chat:      service.NewChatService(analytics, responder, gemini),
		Dashboard: service.NewDashboardService(repos.User, repos.Course, repos.Enrollment, repos.Submission, rdb),
	}
	services.Assignment = service.NewAssignmentService(repos.Assignment, repos.Submission, repos.Course, repos.Enrollment, repos.Activity, storage)

	controllers := &Controllers{
		Auth:       controller.NewAuthController(services.Auth),
		User:       controller.NewUserController(services.User),
		Course:     controller.NewCourseController(services.Course),
		Assignment: controller.NewAssignmentController(services.Assignment),
		Grade:      controller.NewGradeController(services.Assignment),
		Analytics:  controller.NewAnalyticsController(services.Analytics, services.Advisor),
		Advisor:    controller.NewAdvisorController(services.Analytics, services.Advisor, services.User),
		Chat:       controller.NewChatController(services.Chat),
		Dashboard:  controller.NewDashboardController(services.Dashboard),
		Health:     controller.NewHealthController(db),
	}

	monitoring.Init()

	a := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Services:    services,
		Controllers: controllers,
	}
	a.Engine = a.buildRouter()
	return a, nil
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then
// drains for up to ten seconds.
func (a *App) Run() error {
	if a.Config.Tracing.Enabled {
		tp, err := tracing.InitTracer("lms-backend", a.Config.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(ctx); err != nil {
					logger.Log.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		a.Services.Gemini.UpdateConfig(cfg.AI)
		logger.Log.Info("config reloaded", zap.String("ai_model", cfg.AI.Model))
	})

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
