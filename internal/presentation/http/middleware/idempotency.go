package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/repository"
	"github.com/sangkips/devis-api/internal/presentation/http/dto/response"
	"github.com/sangkips/devis-api/pkg/apperror"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks responses served from a stored key
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyTTL is used when the config leaves TTL unset
	DefaultIdempotencyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo        repository.IdempotencyRepository
	TTL         time.Duration
	MaxBodySize int64
	Logger      *zap.Logger
	Now         func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a request is retried with the
// same Idempotency-Key. Requests without a key pass through untouched. A key
// reused with a different body is rejected.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = DefaultIdempotencyTTL
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		userID, ok := c.Get("user_id")
		uid, _ := userID.(uuid.UUID)
		if !ok || uid == uuid.Nil {
			c.Next()
			return
		}

		hash, err := hashBody(c, config.MaxBodySize)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				response.Error(c, apperror.ErrPayloadTooLarge)
			} else {
				response.BadRequest(c, "Failed to read request body")
			}
			c.Abort()
			return
		}

		log := config.Logger.With(
			zap.String("idempotency_key", key),
			zap.String("user_id", uid.String()),
		)

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, uid)
		if err != nil {
			log.Error("idempotency lookup failed", zap.Error(err))
			response.Error(c, apperror.NewInternalError("Failed to check idempotency key", err))
			c.Abort()
			return
		}

		if existing != nil {
			endpoint := c.Request.Method + " " + c.FullPath()
			if existing.Endpoint != endpoint || !existing.Matches(hash) {
				log.Warn("idempotency key reused with a different request",
					zap.String("endpoint", endpoint),
					zap.String("stored_endpoint", existing.Endpoint),
				)
				response.Error(c, apperror.NewAppError(http.StatusUnprocessableEntity,
					"Idempotency-Key was already used for a different request"))
				c.Abort()
				return
			}

			contentType := existing.ContentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, contentType, []byte(existing.ResponseBody))
			c.Abort()
			log.Debug("idempotent response replayed", zap.Int("status", existing.ResponseCode))
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are remembered so failed attempts can be retried
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			UserID:       uid,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  hash,
			ResponseCode: status,
			ContentType:  c.Writer.Header().Get("Content-Type"),
			ResponseBody: blw.body.String(),
			ExpiresAt:    config.Now().Add(config.TTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			log.Warn("failed to store idempotency key", zap.Error(err))
		}
	}
}

// hashBody reads the request body, restores it for the handler and returns
// its hex encoded sha256
func hashBody(c *gin.Context, limit int64) (string, error) {
	if c.Request.Body == nil {
		return hex.EncodeToString(sha256.New().Sum(nil)), nil
	}

	body := c.Request.Body
	if limit > 0 {
		body = http.MaxBytesReader(c.Writer, body, limit)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(data))

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
