package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"linkbio/internal/adapters/httpapi/middleware"
	testhttp "linkbio/internal/testing/httptest"
)

var testSecret = []byte("test-secret")

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", middleware.Auth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.OwnerID(c))
	})

	return r
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", rec.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{
			name: "wrong secret",
			header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{
				Subject: "alice",
			}),
		},
		{
			name: "expired",
			header: "Bearer " + signed(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}),
		},
		{
			name:   "missing subject",
			header: "Bearer " + signed(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{}),
		},
		{
			name: "other algorithm",
			header: "Bearer " + signed(t, jwt.SigningMethodHS512, testSecret, jwt.RegisteredClaims{
				Subject: "alice",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			authRouter().ServeHTTP(rec, req)

			testhttp.RequireProblem(t, rec.Result(), http.StatusUnauthorized, "unauthorized")
			require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}
