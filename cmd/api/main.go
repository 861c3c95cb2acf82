package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/devis-api/internal/application/service"
	"github.com/sangkips/devis-api/internal/config"
	domainRepo "github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/internal/infrastructure/database"
	"github.com/sangkips/devis-api/internal/infrastructure/repository"
	"github.com/sangkips/devis-api/internal/infrastructure/storage"
	"github.com/sangkips/devis-api/internal/pdf"
	"github.com/sangkips/devis-api/internal/presentation/http/handler"
	"github.com/sangkips/devis-api/internal/presentation/http/middleware"
	"github.com/sangkips/devis-api/internal/presentation/http/routes"
	"github.com/sangkips/devis-api/pkg/email"
	"github.com/sangkips/devis-api/pkg/logger"
	"github.com/sangkips/devis-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	shutdownTimeout         = 15 * time.Second
	idempotencyCleanupEvery = time.Hour
	renderBodyLimit         = 2 << 20
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.EnvFileErr != nil {
		zlog.Info("no .env file loaded, using environment only", zap.Error(cfg.EnvFileErr))
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Initialize repositories
	quoteRepo := repository.NewQuoteRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	fileRepo := repository.NewGeneratedFileRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	store, err := storage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.UploadMaxSize)
	if err != nil {
		zlog.Fatal("failed to prepare storage", zap.Error(err))
	}

	// Mail delivery is optional; without SMTP the send endpoints answer 503
	var mailer service.DocumentMailer
	if cfg.SMTP.Enabled() {
		mailer = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.SMTP.Host,
			SMTPPort:     cfg.SMTP.Port,
			SMTPUsername: cfg.SMTP.Username,
			SMTPPassword: cfg.SMTP.Password,
			FromName:     cfg.App.Name,
			FromEmail:    cfg.SMTP.From,
		})
	} else {
		zlog.Warn("SMTP_HOST is not set, document mailing is disabled")
	}

	// Initialize services
	renderer := pdf.NewRenderer(pdf.DefaultConfig())
	renderService := service.NewRenderService(cfg.Layout.Profiles(), renderer, zlog.Named("render"))
	quoteService := service.NewQuoteService(quoteRepo, fileRepo, renderService, store, mailer, zlog.Named("quotes"))
	invoiceService := service.NewInvoiceService(invoiceRepo, fileRepo, renderService, store, mailer, zlog.Named("invoices"))

	// Initialize handlers
	handlers := &routes.Handlers{
		Render:  handler.NewRenderHandler(renderService, renderBodyLimit),
		Quote:   handler.NewQuoteHandler(quoteService, store.MaxSize()),
		Invoice: handler.NewInvoiceHandler(invoiceService, store.MaxSize()),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFor(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Duration,
	))
	defer rateLimiter.Stop()

	// Setup routes
	router, err := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zlog,
	})
	if err != nil {
		zlog.Fatal("failed to set up routes", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// purgeIdempotencyKeys deletes expired keys until ctx is cancelled
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, zlog *zap.Logger) {
	ticker := time.NewTicker(idempotencyCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				zlog.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				zlog.Debug("purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
