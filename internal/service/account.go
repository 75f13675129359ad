// Package service contains the business rules of the application.
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → uniqueness, ownership, orchestration
//	Repository      → reads/writes storage
//
// Services take repository interfaces, never a concrete backend, so the
// same code runs on the memory store, SQLite and Postgres, and tests can
// pass a memory store or a hand-written fake.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

// invalidCredentials is deliberately identical for unknown emails and wrong
// passwords so the response does not reveal which accounts exist.
const invalidCredentials = "Invalid email or password"

// AccountService handles registration, login and self-service profile
// changes.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAccountService(users repository.UserRepository, passwords *auth.PasswordService, m *metrics.Metrics, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, passwords: passwords, metrics: m, logger: logger}
}

// Register creates a `user` account. Email is checked before username so the
// error names the first collision a person would notice.
func (s *AccountService) Register(ctx context.Context, in model.RegisterInput) (*model.User, error) {
	if err := s.ensureAvailable(ctx, 0, &in.Username, &in.Email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/account: %w", err)
	}

	user, err := s.users.CreateUser(ctx, model.User{
		Username:      strings.TrimSpace(in.Username),
		Email:         strings.TrimSpace(in.Email),
		Password:      hash,
		Role:          model.RoleUser,
		FavoriteSport: in.FavoriteSport,
		FavoriteTeam:  in.FavoriteTeam,
	})
	if err != nil {
		return nil, fmt.Errorf("service/account: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Login verifies credentials. Every failure is the same 401.
func (s *AccountService) Login(ctx context.Context, in model.LoginInput) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		s.passwords.VerifyMissing(in.Password)
		s.metrics.Login(false)
		return nil, apperror.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("service/account: looking up %q: %w", in.Email, err)
	}

	if err := s.passwords.Verify(user.Password, in.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.metrics.Login(false)
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/account: %w", err)
	}

	s.metrics.Login(true)
	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own account.
// Role is not part of ProfileInput, so it can never change here.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, in model.ProfileInput) (*model.User, error) {
	if err := s.ensureAvailable(ctx, userID, in.Username, in.Email); err != nil {
		return nil, err
	}

	patch := model.UserPatch{
		Username:      trimmed(in.Username),
		Email:         trimmed(in.Email),
		FavoriteSport: in.FavoriteSport,
		FavoriteTeam:  in.FavoriteTeam,
	}
	if in.Password != nil {
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("service/account: %w", err)
		}
		patch.Password = &hash
	}

	user, err := s.users.UpdateUser(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("service/account: updating user %d: %w", userID, err)
	}
	return user, nil
}

// DeleteAccount removes the user and everything that cascades from it.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64) error {
	ok, err := s.users.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("service/account: deleting user %d: %w", userID, err)
	}
	if !ok {
		return apperror.NotFound("user", userID)
	}
	s.logger.Info("user deleted their account", slog.Int64("user_id", userID))
	return nil
}

// SignInWithGitHub finds the local account for a GitHub profile (by email,
// then by username) or creates one. Created accounts get an unusable
// password: bcrypt rejects it as malformed, so only GitHub can sign them in.
func (s *AccountService) SignInWithGitHub(ctx context.Context, gh *auth.GitHubUser) (*model.User, error) {
	if gh == nil {
		return nil, errors.New("service/account: GitHub user must not be nil")
	}

	if gh.Email != "" {
		user, err := s.users.GetUserByEmail(ctx, gh.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/account: looking up GitHub email: %w", err)
		}
	}

	if user, err := s.users.GetUserByUsername(ctx, gh.Login); err == nil {
		if gh.Email == "" || model.SameIdentity(user.Email, gh.Email) {
			return user, nil
		}
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/account: looking up GitHub login: %w", err)
	}

	username, err := s.freeUsername(ctx, gh.Login, gh.ID)
	if err != nil {
		return nil, err
	}
	email := gh.Email
	if email == "" {
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", gh.ID, gh.Login)
	}

	user, err := s.users.CreateUser(ctx, model.User{
		Username: username,
		Email:    email,
		Password: "!github:" + xid.New().String(),
		Role:     model.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("service/account: creating GitHub user: %w", err)
	}

	s.logger.Info("user registered via GitHub",
		slog.Int64("user_id", user.ID),
		slog.String("login", gh.Login),
	)
	return user, nil
}

// freeUsername returns login, or login suffixed with the GitHub id when a
// different local account already holds it.
func (s *AccountService) freeUsername(ctx context.Context, login string, githubID int64) (string, error) {
	candidates := []string{login, login + "-" + strconv.FormatInt(githubID, 10)}
	for _, name := range candidates {
		_, err := s.users.GetUserByUsername(ctx, name)
		if errors.Is(err, apperror.ErrNotFound) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("service/account: checking username %q: %w", name, err)
		}
	}
	return "", apperror.Conflict("username", "Username already taken")
}

// ensureAvailable checks email then username against accounts other than
// self (0 for a new account). nil pointers are skipped.
func (s *AccountService) ensureAvailable(ctx context.Context, self int64, username, email *string) error {
	if email != nil {
		existing, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(*email))
		switch {
		case err == nil && existing.ID != self:
			return apperror.Conflict("email", "Email already in use")
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			return fmt.Errorf("service/account: checking email: %w", err)
		}
	}
	if username != nil {
		existing, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(*username))
		switch {
		case err == nil && existing.ID != self:
			return apperror.Conflict("username", "Username already taken")
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			return fmt.Errorf("service/account: checking username: %w", err)
		}
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
