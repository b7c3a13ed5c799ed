package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"linkbio/internal/adapters/httpapi/problems"
)

const ownerIDKey = "owner_id"

// Auth accepts HS256 bearer tokens signed with secret and exposes the
// subject claim as the owner id.
func Auth(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)

			return
		}

		var claims jwt.RegisteredClaims
		if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
			unauthorized(c)

			return
		}

		owner := strings.TrimSpace(claims.Subject)
		if owner == "" {
			unauthorized(c)

			return
		}

		c.Set(ownerIDKey, owner)
		c.Next()
	}
}

// OwnerID returns the authenticated owner id, or "" outside Auth.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	problems.AbortWithProblem(c, problems.Problem{
		Type:   problems.ProblemTypeUnauthorized,
		Title:  problems.TitleUnauthorized,
		Status: http.StatusUnauthorized,
		Detail: problems.DetailUnauthorized,
	})
}
