package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/database"
	"github.com/prepnest/prepnest-backend/internal/handler"
	"github.com/prepnest/prepnest-backend/internal/logger"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/prepnest/prepnest-backend/internal/router"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
	"github.com/prepnest/prepnest-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PrepNest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	ebookRepo := repository.NewEbookRepository(pool)
	paperRepo := repository.NewPaperRepository(pool)
	pageRepo := repository.NewPageRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb, log)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, log)
	quizService := service.NewQuizService(quizRepo, attemptRepo, rdb, log)
	articleService := service.NewArticleService(articleRepo, taxonomyService, log)
	ebookService := service.NewEbookService(ebookRepo, taxonomyService, rdb, log)
	paperService := service.NewPaperService(paperRepo, taxonomyService, rdb, log)
	pageService := service.NewPageService(pageRepo, log)
	mediaService := service.NewMediaService(cfg, mediaRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:  handler.NewAuthHandler(cfg, authService),
		Quiz:  handler.NewQuizHandler(quizService, taxonomyService),
		Media: handler.NewMediaHandler(mediaService),
		Page:  handler.NewPageHandler(pageService),

		Article: handler.NewArticleHandler(articleService),
		Ebook:   handler.NewEbookHandler(ebookService),
		Paper:   handler.NewPaperHandler(paperService),

		AffairsTaxonomy: handler.NewTaxonomyHandler(model.SectionAffairs, taxonomyService),
		EbookTaxonomy:   handler.NewTaxonomyHandler(model.SectionEbooks, taxonomyService),
		PaperTaxonomy:   handler.NewTaxonomyHandler(model.SectionPapers, taxonomyService),
		QuizTaxonomy:    handler.NewTaxonomyHandler(model.SectionQuizzes, taxonomyService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	downloadWorker := worker.NewDownloadWorker(pool, rdb, log)
	go downloadWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for its queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
