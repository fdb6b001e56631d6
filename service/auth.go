package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Audience tags restrict a token to its purpose. An access token is never
// accepted where a refresh token is required, and vice versa.
const (
	AudienceAccess  = "righthand-api"
	AudienceRefresh = "righthand-refresh"
)

const (
	defaultIssuer     = "righthand-ops-hub"
	defaultAccessTTL  = "24h"
	defaultRefreshTTL = "7d"
	// defaultExpirySeconds is the documented fallback when a TTL string does
	// not match the ^\d+[smhd]$ grammar.
	defaultExpirySeconds = 86400

	// devSecret is only ever used when no secret is configured. Unsafe for
	// production, which NewAuthService logs loudly.
	devSecret = "righthand-dev-secret-do-not-deploy"
)

// AuthConfig carries the signing policy for the token service. It is built
// once at startup and injected, never read from the environment here.
type AuthConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  string // grammar: ^\d+[smhd]$, e.g. "24h"
	RefreshTTL string
	// Clock is used for issued-at and expiry stamps. Defaults to time.Now,
	// overridable in tests.
	Clock func() time.Time
}

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService mints, verifies and refreshes HS256-signed token pairs. It is
// stateless over a fixed config and safe for unbounded concurrent use.
type AuthService struct {
	cfg    AuthConfig
	store  db.Database
	parser *jwt.Parser
}

// NewAuthService validates and defaults the config. The credential store is
// only consulted by Refresh, to re-resolve the identity before rotation.
func NewAuthService(cfg AuthConfig, store db.Database) *AuthService {
	if cfg.Secret == "" {
		slog.Warn("no JWT secret configured, using the built-in development secret; do not run this in production")
		cfg.Secret = devSecret
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	if cfg.AccessTTL == "" {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL == "" {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &AuthService{
		cfg:   cfg,
		store: store,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
		),
	}
}

// IssueAccessToken mints a short-lived token bound to the access audience.
func (s *AuthService) IssueAccessToken(user models.User) (string, error) {
	return s.issue(user, AudienceAccess, s.cfg.AccessTTL)
}

// IssueRefreshToken mints a longer-lived token bound to the refresh audience.
func (s *AuthService) IssueRefreshToken(user models.User) (string, error) {
	return s.issue(user, AudienceRefresh, s.cfg.RefreshTTL)
}

func (s *AuthService) issue(user models.User, audience, ttl string) (string, error) {
	now := s.cfg.Clock()

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTLDuration(ttl))),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// IssueTokenPair mints a fresh access/refresh pair. ExpiresIn reports the
// access token lifetime in seconds.
func (s *AuthService) IssueTokenPair(user models.User) (models.TokenPair, error) {
	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	refreshToken, err := s.IssueRefreshToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    TTLSeconds(s.cfg.AccessTTL),
		TokenType:    models.TokenTypeBearer,
	}, nil
}

// Verify checks signature, expiry, issuer and that the token carries at least
// one of the expected audiences. Expired and malformed tokens come back as
// distinct errors so callers can tell "refresh me" apart from "log in again".
func (s *AuthService) Verify(tokenString string, audiences ...string) (*Claims, error) {
	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if claims.Issuer != s.cfg.Issuer {
		return nil, ErrIssuerMismatch
	}

	for _, audience := range audiences {
		for _, claimed := range claims.Audience {
			if claimed == audience {
				return claims, nil
			}
		}
	}

	return nil, ErrAudienceMismatch
}

// ExtractBearerToken parses an Authorization header of the exact shape
// "Bearer <token>". Anything else fails with ErrHeaderMalformed.
func ExtractBearerToken(header string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrHeaderMalformed
	}
	return parts[1], nil
}

// Refresh verifies a refresh token, re-resolves the identity from the
// credential store and rotates the full pair. A token for a deleted user
// fails with ErrIdentityNotFound and mints nothing.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, models.User, error) {
	claims, err := s.Verify(refreshToken, AudienceRefresh)
	if err != nil {
		return models.TokenPair{}, models.User{}, err
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return models.TokenPair{}, models.User{}, ErrIdentityNotFound
	}
	if err != nil {
		return models.TokenPair{}, models.User{}, err
	}

	pair, err := s.IssueTokenPair(user)
	if err != nil {
		return models.TokenPair{}, models.User{}, err
	}

	return pair, user, nil
}

var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var ttlUnits = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// TTLSeconds converts a TTL string like "24h" or "7d" to seconds. Input that
// does not match the grammar falls back to 86400 seconds; that fallback is
// policy, not an error.
func TTLSeconds(ttl string) int64 {
	match := ttlPattern.FindStringSubmatch(ttl)
	if match == nil {
		return defaultExpirySeconds
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return defaultExpirySeconds
	}

	return value * ttlUnits[match[2]]
}

// TTLDuration is TTLSeconds as a time.Duration.
func TTLDuration(ttl string) time.Duration {
	return time.Duration(TTLSeconds(ttl)) * time.Second
}
