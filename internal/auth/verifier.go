package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Config describes the trusted token issuer. Issuer and Audience are
// required. JWKSURL defaults to the issuer's /.well-known/jwks.json endpoint.
type Config struct {
	Issuer   string
	Audience string
	JWKSURL  string

	// AllowedAlgs restricts acceptable signing algorithms; defaults to RS256.
	AllowedAlgs []string
	// Leeway is the clock-skew tolerance applied to time-based claims.
	Leeway time.Duration
}

// Verifier validates bearer tokens against an auto-refreshing JWKS.
type Verifier struct {
	parser  *jwt.Parser
	keyfunc jwt.Keyfunc
}

// NewVerifier fetches the JWKS once up front and keeps it refreshed in the
// background for the lifetime of ctx. It fails fast if the endpoint is
// unreachable so a misconfigured deploy dies at startup, not on first request.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("auth: issuer is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("auth: audience is required")
	}
	if len(cfg.AllowedAlgs) == 0 {
		cfg.AllowedAlgs = []string{"RS256"}
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = strings.TrimSuffix(cfg.Issuer, "/") + "/.well-known/jwks.json"
	}

	kf, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("auth: jwks init %s: %w", jwksURL, err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(cfg.AllowedAlgs),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithLeeway(cfg.Leeway),
	)

	return &Verifier{
		parser: parser,
		keyfunc: func(t *jwt.Token) (any, error) {
			alg := t.Method.Alg()
			allowed := false
			for _, a := range cfg.AllowedAlgs {
				if alg == a {
					allowed = true
					break
				}
			}
			if !allowed {
				return nil, fmt.Errorf("disallowed alg: %s", alg)
			}
			return kf.Keyfunc(t)
		},
	}, nil
}

// VerifyToken parses and validates a raw bearer token and returns its claims.
// Every failure comes back as a *Error with a 401 status.
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, v.keyfunc); err != nil {
		return nil, mapParseError(err)
	}
	return claims, nil
}

// mapParseError folds the parser's error tree into the auth taxonomy. Expiry
// is checked first: an expired token may fail several checks at once and the
// expiry is the answer the caller can act on.
func mapParseError(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return unauthorized(CodeTokenExpired, "Token expired.")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return unauthorized(CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return unauthorized(CodeInvalidSignature, "Unable to verify the signature of the token.")
	default:
		return unauthorized(CodeInvalidHeader, "Unable to parse authentication token.")
	}
}
