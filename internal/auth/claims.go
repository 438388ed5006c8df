package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded token payload. A payload without a permissions field
// unmarshals to a nil slice, which CheckPermission treats differently from a
// present-but-empty list.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the token carries the permission string.
func (c *Claims) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CheckPermission enforces a required permission against verified claims.
func (c *Claims) CheckPermission(perm string) error {
	if c.Permissions == nil {
		return unauthorized(CodeInvalidClaims, "Permissions not included in token.")
	}
	if !c.HasPermission(perm) {
		return forbidden("Permission not found.")
	}
	return nil
}

// BearerToken extracts the raw token from the Authorization header. The
// header must be exactly "Bearer <token>"; the scheme match is literal.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", unauthorized(CodeMissingHeader, "Authorization header is expected.")
	}
	parts := strings.Split(h, " ")
	if parts[0] != "Bearer" {
		return "", unauthorized(CodeInvalidHeader, `Authorization header must start with "Bearer".`)
	}
	if len(parts) == 1 || parts[1] == "" {
		return "", unauthorized(CodeInvalidHeader, "Token not found.")
	}
	if len(parts) > 2 {
		return "", unauthorized(CodeInvalidHeader, "Authorization header must be bearer token.")
	}
	return parts[1], nil
}
