package service

import "errors"

// Typed auth failures. Handlers and middleware map these to HTTP responses
// with errors.Is, never by matching message text.
var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed. Clients should refresh or log in again.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers bad structure, bad signature and any other
	// parse failure that is not an expiry.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrAudienceMismatch means a valid token was presented for the wrong
	// purpose, e.g. a refresh token on a protected route.
	ErrAudienceMismatch = errors.New("token audience mismatch")
	// ErrIssuerMismatch means the token was issued by a different service.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrHeaderMalformed means the Authorization header is not of the exact
	// form "Bearer <token>".
	ErrHeaderMalformed = errors.New("authorization header malformed")
	// ErrIdentityNotFound means a token referenced a user that no longer
	// exists in the credential store.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so login responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken means registration hit an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrTooManyAttempts means the email has too many recent failed logins.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)
