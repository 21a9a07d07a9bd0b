package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agora-forum/api-go/models"
	"github.com/agora-forum/api-go/services"
	"github.com/agora-forum/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]services.Caller

func (s stubAuth) Authenticate(_ context.Context, token string) (services.Caller, error) {
	if token == "broken" {
		return services.Caller{}, errors.New("db down")
	}
	caller, ok := s[token]
	if !ok {
		return services.Caller{}, services.ErrUnauthorized
	}
	return caller, nil
}

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := stubAuth{
		"user-token":  {ID: 1, Role: models.RoleUser},
		"admin-token": {ID: 2, Role: models.RoleAdmin},
	}
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		if u := utils.GetUser(c); u != nil {
			c.JSON(http.StatusOK, gin.H{"user": u.UserID, "token": u.Token})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "anonymous", header: "", status: http.StatusOK, body: `"user":null`},
		{name: "valid", header: "Bearer user-token", status: http.StatusOK, body: `"user":1`},
		{name: "lowercase scheme", header: "bearer user-token", status: http.StatusOK, body: `"token":"user-token"`},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, body: "Invalid token format"},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized, body: "Invalid token"},
		{name: "backend failure", header: "Bearer broken", status: http.StatusInternalServerError, body: "Failed to authenticate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequireAuthAndAdmin(t *testing.T) {
	authed := newAuthRouter(RequireAuth())
	assert.Equal(t, http.StatusUnauthorized, do(authed, "").Code)
	assert.Equal(t, http.StatusOK, do(authed, "Bearer user-token").Code)

	admin := newAuthRouter(RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, do(admin, "").Code)
	assert.Equal(t, http.StatusForbidden, do(admin, "Bearer user-token").Code)
	assert.Equal(t, http.StatusOK, do(admin, "Bearer admin-token").Code)
}
