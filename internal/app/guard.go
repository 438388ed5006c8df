package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"taproom/internal/auth"
)

// Permissions understood by the API. The identity provider decides which
// roles carry which; tokens arrive with them in a permissions claim.
const (
	PermReadDetail = "get:drinks-detail"
	PermCreate     = "post:drinks"
	PermUpdate     = "patch:drinks"
	PermDelete     = "delete:drinks"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// RequirePermission verifies the bearer token and checks the permission
// before the handler runs. Verified claims land in the request context; any
// failure short-circuits with the auth error envelope.
func (a *App) RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.BearerToken(r)
			if err != nil {
				a.writeAuthError(w, err)
				return
			}
			claims, err := a.verifier.VerifyToken(r.Context(), raw)
			if err != nil {
				a.writeAuthError(w, err)
				return
			}
			if err := claims.CheckPermission(perm); err != nil {
				a.writeAuthError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims returns the verified claims stored by RequirePermission, or nil on
// public routes.
func (a *App) Claims(r *http.Request) *auth.Claims {
	c, _ := r.Context().Value(ctxKeyClaims).(*auth.Claims)
	return c
}

func (a *App) writeAuthError(w http.ResponseWriter, err error) {
	var ae *auth.Error
	if !errors.As(err, &ae) {
		ae = &auth.Error{Code: auth.CodeInvalidHeader, Description: "Authorization failed.", Status: http.StatusUnauthorized}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(ae.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   ae.Status,
		"code":    ae.Code,
		"message": ae.Description,
	})
}
