// Package service provides business logic for the application.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gridboard/gridboard/internal/auth"
	"github.com/gridboard/gridboard/internal/metrics"
	"github.com/gridboard/gridboard/internal/model"
	"github.com/gridboard/gridboard/internal/repository"
	"github.com/gridboard/gridboard/internal/store"
)

// Service errors.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token revoked")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// UserRepository is the subset of the database layer the account service
// needs.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// StoreProvider hands out per-user key-value store views.
type StoreProvider interface {
	ForUser(userID string) store.Store
}

// AccountService handles registration, sign-in, profile updates and
// sign-out.
type AccountService struct {
	repo     UserRepository
	stores   StoreProvider
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo UserRepository, stores StoreProvider, secret []byte, tokenTTL time.Duration, logger *slog.Logger, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		repo:     repo,
		stores:   stores,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
		metrics:  recorder,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	UserType string
}

// Register creates an account and signs the user in. The subscription tier
// is derived from the user type; it is never client-assigned directly.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	email := normalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	userType := input.UserType
	if userType == "" {
		userType = model.UserTypeNormal
	}
	if !model.IsValidUserType(userType) {
		return nil, "", ErrInvalidUserType
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:               ulid.Make().String(),
		Email:            email,
		Name:             strings.TrimSpace(input.Name),
		UserType:         userType,
		SubscriptionTier: model.TierForUserType(userType),
		PasswordHash:     hash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.metrics.IncUserRegistered()

	return user, token, nil
}

// Login authenticates by email and password and issues a fresh token.
// All credential failures collapse into ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.metrics.IncUserSignedIn()

	return user, token, nil
}

// Authenticate verifies a bearer token, checks it has not been revoked by
// sign-out, and returns the user it belongs to.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	stored, err := s.stores.ForUser(userID).Get(ctx, store.KeyAuthToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, fmt.Errorf("failed to check token record: %w", err)
	}
	if string(stored) != auth.TokenDigest(token) {
		return nil, ErrTokenRevoked
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput defines the patchable profile fields. Tier and user
// type are supplied externally and never client-patchable.
type UpdateProfileInput struct {
	Name           *string
	Email          *string
	ProfilePicture *string
}

// UpdateProfile applies a partial profile update and refreshes the stored
// user snapshot.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if !emailRegex.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.mirrorUser(ctx, user); err != nil {
		// The database is authoritative; a stale snapshot self-heals on
		// the next sign-in.
		s.logger.Warn("user_snapshot_refresh_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// SignOut clears the user's stored state: token record, user snapshot,
// dashboard layout and settings. The device returns to an
// unauthenticated, default-layout state.
func (s *AccountService) SignOut(ctx context.Context, userID string) error {
	err := s.stores.ForUser(userID).Delete(ctx,
		store.KeyAuthToken,
		store.KeyUserData,
		store.KeyDashboardLayout,
		store.KeyUserSettings,
	)
	if err != nil {
		return fmt.Errorf("failed to clear user state: %w", err)
	}

	s.metrics.IncUserSignedOut()

	return nil
}

// RequestPasswordReset acknowledges a reset request. Delivery is handled
// out of band; the request is only logged here.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) {
	s.logger.Info("password_reset_requested", slog.String("email", normalizeEmail(email)))
}

// issueToken signs a bearer token and records its digest so sign-out can
// revoke it.
func (s *AccountService) issueToken(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	st := s.stores.ForUser(user.ID)
	if err := st.Set(ctx, store.KeyAuthToken, []byte(auth.TokenDigest(token))); err != nil {
		return "", fmt.Errorf("failed to record token: %w", err)
	}

	if err := s.mirrorUser(ctx, user); err != nil {
		s.logger.Warn("user_snapshot_write_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return token, nil
}

// mirrorUser writes the serialized user snapshot under user_data.
func (s *AccountService) mirrorUser(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.stores.ForUser(user.ID).Set(ctx, store.KeyUserData, raw)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
