package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/devis-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerRecordsAuthenticatedUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := utils.NewJWTManager("secret", "")
	userID := uuid.New()
	token, err := m.GenerateAccessToken(userID, uuid.New(), "marie@example.fr", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/me", AuthMiddleware(m), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := perform(r, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, userID.String(), fields["user_id"])
	assert.Equal(t, "marie@example.fr", fields["user_email"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoggerWarnsOnClientErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/me", AuthMiddleware(utils.NewJWTManager("secret", "")), func(c *gin.Context) {})

	perform(r, httptest.NewRequest(http.MethodGet, "/me", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.NotContains(t, entries[0].ContextMap(), "user_email")
}
