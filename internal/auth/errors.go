package auth

import "net/http"

// Machine-readable failure codes carried on Error.
const (
	CodeMissingHeader    = "authorization_header_missing"
	CodeInvalidHeader    = "invalid_header"
	CodeTokenExpired     = "token_expired"
	CodeInvalidClaims    = "invalid_claims"
	CodeInvalidSignature = "invalid_signature"
	CodeInsufficientPerm = "insufficient_permissions"
)

// Error is a structured auth failure: a stable code, a human-readable
// description, and the HTTP status the failure maps to. Token parsing
// internals never leak to clients.
type Error struct {
	Code        string
	Description string
	Status      int
}

func (e *Error) Error() string { return e.Code + ": " + e.Description }

func unauthorized(code, description string) *Error {
	return &Error{Code: code, Description: description, Status: http.StatusUnauthorized}
}

func forbidden(description string) *Error {
	return &Error{Code: CodeInsufficientPerm, Description: description, Status: http.StatusForbidden}
}
