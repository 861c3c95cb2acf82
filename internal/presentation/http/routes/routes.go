package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/devis-api/internal/config"
	domainRepo "github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/internal/presentation/http/handler"
	"github.com/sangkips/devis-api/internal/presentation/http/middleware"
	"github.com/sangkips/devis-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Render  *handler.RenderHandler
	Quote   *handler.QuoteHandler
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes. The rate limiter
// is owned by the caller, which must Stop it on shutdown.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	switch {
	case deps == nil || deps.Cfg == nil:
		return nil, errors.New("routes: config is required")
	case deps.JWTManager == nil:
		return nil, errors.New("routes: JWT manager is required")
	case deps.RateLimiter == nil:
		return nil, errors.New("routes: rate limiter is required")
	}

	router := gin.New()

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Global middleware
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		protected.Use(deps.RateLimiter.Middleware())

		registerRenderRoutes(protected, h)
		registerQuoteRoutes(protected, h, deps, log)
		registerInvoiceRoutes(protected, h, deps, log)
	}

	return router, nil
}

func registerRenderRoutes(protected *gin.RouterGroup, h *Handlers) {
	render := protected.Group("/render/:kind")
	{
		render.POST("/layout", h.Render.Layout)
		render.POST("/pdf", h.Render.PDF)
	}
}

func idempotent(deps *Deps, log *zap.Logger) gin.HandlerFunc {
	return middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:        deps.IdempotencyRepo,
		TTL:         deps.Cfg.Idempotency.TTL,
		MaxBodySize: deps.Cfg.Storage.UploadMaxSize,
		Logger:      log,
	})
}

func registerQuoteRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, log *zap.Logger) {
	quotes := protected.Group("/quotes")
	{
		quotes.GET("", h.Quote.List)
		quotes.GET("/:id", h.Quote.Get)
		quotes.GET("/:id/pdf", h.Quote.RenderPDF)
		// Saving uses idempotency middleware so retried uploads are stored once
		quotes.POST("/:id/pdf", idempotent(deps, log), h.Quote.SavePDF)
		quotes.GET("/:id/files", h.Quote.Files)
		quotes.POST("/:id/send", h.Quote.Send)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, log *zap.Logger) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/pdf", h.Invoice.RenderPDF)
		invoices.POST("/:id/pdf", idempotent(deps, log), h.Invoice.SavePDF)
		invoices.GET("/:id/files", h.Invoice.Files)
		invoices.POST("/:id/send", h.Invoice.Send)
	}
}
