package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/kv"
	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
)

const (
	// Failed logins per email tolerated inside one attempt window before
	// further logins are refused.
	maxLoginAttempts = 10
	attemptWindow    = 15 * time.Minute
)

// UserService implements registration and credential login on top of the
// credential store, the password hasher and the token service.
type UserService struct {
	db     db.Database
	kv     kv.KeyValueStore
	auth   *AuthService
	hasher PasswordHasher
}

func NewUserService(db db.Database, kv kv.KeyValueStore, auth *AuthService, hasher PasswordHasher) *UserService {
	return &UserService{
		db:     db,
		kv:     kv,
		auth:   auth,
		hasher: hasher,
	}
}

// Register creates a new viewer account. Duplicate emails fail with
// ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, form forms.RegisterForm) (models.User, error) {
	exists, err := s.db.EmailExists(ctx, form.Email)
	if err != nil {
		slog.Error("failed to check if email exists", "error", err)
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return models.User{}, err
	}

	user, err := s.db.CreateUser(ctx, db.CreateUser{
		Email:   form.Email,
		PwdHash: hash,
		Role:    models.RoleViewer,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		return models.User{}, err
	}

	return user, nil
}

// Login checks credentials and mints a token pair. Unknown email and wrong
// password both come back as ErrInvalidCredentials; failed attempts are
// counted per email in the kv store and, past the limit, logins are refused
// with ErrTooManyAttempts until the window expires.
func (s *UserService) Login(ctx context.Context, form forms.LoginForm) (models.User, models.TokenPair, error) {
	if s.recentFailures(form.Email) >= maxLoginAttempts {
		return models.User{}, models.TokenPair{}, ErrTooManyAttempts
	}

	user, err := s.db.FindByEmail(ctx, form.Email)
	if errors.Is(err, db.ErrNotFound) {
		s.recordFailure(form.Email)
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		slog.Error("failed to look up user by email", "error", err)
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.Password, form.Password); err != nil {
		s.recordFailure(form.Email)
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	s.clearFailures(form.Email)

	if err := s.db.TouchLastLogin(ctx, user.ID); err != nil {
		slog.Error("failed to stamp last login", "error", err, "user_id", user.ID)
	} else {
		user.LastLogin = time.Now().Unix()
	}

	pair, err := s.auth.IssueTokenPair(user)
	if err != nil {
		slog.Error("failed to issue token pair", "error", err, "user_id", user.ID)
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// One fetches a single user by id.
func (s *UserService) One(ctx context.Context, id int64) (models.User, error) {
	return s.db.FindByID(ctx, id)
}

func attemptKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) recentFailures(email string) int64 {
	raw, err := s.kv.Get(attemptKey(email))
	if err != nil {
		// missing key or kv outage both count as zero, lockout is advisory
		return 0
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

func (s *UserService) recordFailure(email string) {
	count, err := s.kv.Incr(attemptKey(email), attemptWindow)
	if err != nil {
		slog.Error("failed to record login failure", "error", err)
		return
	}
	if count >= maxLoginAttempts {
		slog.Warn("login attempt limit reached", "email", email, "attempts", count)
	}
}

func (s *UserService) clearFailures(email string) {
	if err := s.kv.Del(attemptKey(email)); err != nil {
		slog.Debug("failed to clear login failures", "error", err)
	}
}
