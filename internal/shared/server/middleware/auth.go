package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-report/internal/shared/server/respond"
)

const clientIDKey = "clientId"

// APIKeyAuth identifies the caller. With no keys configured every request is
// accepted and identified by its X-Client-Id header, if any. Otherwise a
// matching "Authorization: Bearer <key>" is required and the caller is
// identified by a digest of the key.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			allowed = append(allowed, []byte(trimmed))
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if len(allowed) == 0 {
			if id := strings.TrimSpace(c.GetHeader("X-Client-Id")); id != "" {
				c.Set(clientIDKey, "client:"+id)
			}
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" || !keyAllowed(allowed, []byte(token)) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid API key", nil)
			return
		}

		sum := sha256.Sum256([]byte(token))
		c.Set(clientIDKey, "key:"+hex.EncodeToString(sum[:6]))
		c.Next()
	}
}

func keyAllowed(allowed [][]byte, token []byte) bool {
	match := 0
	for _, k := range allowed {
		match |= subtle.ConstantTimeCompare(k, token)
	}
	return match == 1
}

// ClientIDFromContext fetches the caller identity set by APIKeyAuth.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
