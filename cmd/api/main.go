package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/justinong00/mern-dormguru-sub000/docs" // swagger docs

	"github.com/justinong00/mern-dormguru-sub000/internal/cache"
	"github.com/justinong00/mern-dormguru-sub000/internal/config"
	"github.com/justinong00/mern-dormguru-sub000/internal/db"
	"github.com/justinong00/mern-dormguru-sub000/internal/handler"
	"github.com/justinong00/mern-dormguru-sub000/internal/imagehost"
	"github.com/justinong00/mern-dormguru-sub000/internal/live"
	"github.com/justinong00/mern-dormguru-sub000/internal/logging"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"
	"github.com/justinong00/mern-dormguru-sub000/internal/txn"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title DormGuru API
// @version 1.0
// @description Dorm reviews: universities, dorms, reviews and their rating stats.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	cfg.LogDefaults(logger)

	// Mongo and Redis
	db.InitMongo(cfg, logger)
	cache.InitRedis(cfg, logger)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(idxCtx, db.DB()); err != nil {
		logger.Fatal("ensure indexes failed", zap.Error(err))
	}
	idxCancel()

	// repos
	userRepo := repository.NewUserRepository(db.DB())
	uniRepo := repository.NewUniversityRepository(db.DB())
	dormRepo := repository.NewDormRepository(db.DB())
	reviewRepo := repository.NewReviewRepository(db.DB())

	tx := txn.New(db.Client(), logger)
	hub := live.NewHub(logger)

	host, err := imagehost.New(cfg, logger)
	if err != nil {
		logger.Fatal("image host setup failed", zap.Error(err))
	}
	maxUpload := cfg.MaxUploadMB << 20

	// services
	tokens := service.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authSvc := service.NewAuthService(userRepo, tokens, logger)
	uniSvc := service.NewUniversityService(uniRepo, dormRepo, reviewRepo, tx, logger)
	dormSvc := service.NewDormService(dormRepo, uniRepo, reviewRepo, tx, logger)
	reviewSvc := service.NewReviewService(reviewRepo, dormRepo, tx, hub, logger)
	statsSvc := service.NewStatsService(reviewRepo, uniRepo, dormRepo, logger)
	imageSvc := service.NewImageService(host, os.TempDir(), maxUpload, logger)
	adminMaintSvc := service.NewAdminMaintenanceService(cfg, db.DB(), dormRepo, reviewRepo, tx, hub, logger)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	uniH := handler.NewUniversityHandler(uniSvc)
	dormH := handler.NewDormHandler(dormSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	imageH := handler.NewImageHandler(imageSvc, maxUpload, logger)
	liveH := handler.NewLiveHandler(dormSvc, hub, logger)
	adminMaintH := handler.NewAdminMaintenanceHandler(adminMaintSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// ============
	// Public routes
	// ============
	r.Get("/health", handler.Health)

	r.Post("/api/user/register", authH.Register)
	r.Post("/api/user/login", authH.Login)

	// locally hosted images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// ===========================
	// JWT protected routes
	// ===========================
	authMw := handler.JWTAuth(tokens, authSvc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMw)

		r.Get("/user/current", authH.Current)
		r.Put("/user/update-user", authH.UpdateCurrent)

		r.Get("/unis", uniH.List)
		r.Get("/unis/{id}", uniH.Get)
		r.Get("/unis/{id}/dorms", uniH.Dorms)

		r.Get("/dorms", dormH.List)
		r.Get("/dorms/{id}", dormH.Get)
		r.Get("/dorms/{id}/live", liveH.DormStats)

		r.Post("/reviews", reviewH.Create)
		r.Get("/reviews/{id}", reviewH.Get)
		r.Put("/reviews/{id}", reviewH.Update)
		r.Delete("/reviews/{id}", reviewH.Delete)
		r.Get("/reviews/get-reviews-by-dorm/{id}", reviewH.ByDorm)
		r.Get("/reviews/get-reviews-by-user/{id}", reviewH.ByUser)
		r.Put("/reviews/toggle-like/{id}", reviewH.ToggleLike)
		r.Put("/reviews/toggle-flag/{id}", reviewH.ToggleFlag)

		r.Get("/filters", statsH.Search)
		r.Get("/home-stats", statsH.HomeStats)

		r.Post("/images", imageH.Upload)

		// ---- ADMIN only ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			r.Get("/user/get-all-users", authH.ListUsers)
			r.Put("/user/update-user-status/{id}", authH.SetUserStatus)

			r.Post("/unis", uniH.Create)
			r.Put("/unis/{id}", uniH.Update)
			r.Delete("/unis/{id}", uniH.Delete)

			r.Post("/dorms", dormH.Create)
			r.Put("/dorms/{id}", dormH.Update)
			r.Delete("/dorms/{id}", dormH.Delete)

			r.Get("/reviews", reviewH.List)

			handler.MountAdminMaintenanceRoutes(r, adminMaintH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		logger.Warn("redis close failed", zap.Error(err))
	}
	if err := db.Disconnect(ctx); err != nil {
		logger.Warn("mongo disconnect failed", zap.Error(err))
	}
}
