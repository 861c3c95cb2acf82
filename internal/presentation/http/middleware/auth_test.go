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
)

func authRouter(m *utils.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet("user_id").(uuid.UUID).String(),
			"email":   c.GetString("user_email"),
		})
	})
	return r
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	m := utils.NewJWTManager("secret", "")
	userID := uuid.New()
	token, err := m.GenerateAccessToken(userID, uuid.New(), "marie@example.fr", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := perform(authRouter(m), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "marie@example.fr")
}

func TestAuthMiddlewareRejections(t *testing.T) {
	m := utils.NewJWTManager("secret", "")
	expired, err := m.GenerateAccessToken(uuid.New(), uuid.Nil, "", -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.NewJWTManager("other", "").GenerateAccessToken(uuid.New(), uuid.Nil, "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Authorization header is required"},
		{"wrong scheme", "Basic abc", "Invalid authorization header format"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"wrong key", "Bearer " + foreign, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := perform(authRouter(m), req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}
