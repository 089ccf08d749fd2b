package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/ktp-league/internal/domain/user"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

// TokenProvider issues and verifies bearer tokens.
type TokenProvider interface {
	IssueAccessToken(ctx context.Context, u user.User) (user.AccessToken, error)
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) bool
}

type CreateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
}

type AuthService struct {
	userRepo user.Repository
	tokens   TokenProvider
	hasher   PasswordHasher
	logger   *logging.Logger
}

func NewAuthService(userRepo user.Repository, tokens TokenProvider, hasher PasswordHasher, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (user.AccessToken, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return user.AccessToken{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	u, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return user.AccessToken{}, fmt.Errorf("get user by username: %w", err)
	}
	if !exists || !s.hasher.Compare(u.PasswordHash, password) {
		s.logger.WarnContext(ctx, "login rejected", "username", username)
		return user.AccessToken{}, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}

	token, err := s.tokens.IssueAccessToken(ctx, u)
	if err != nil {
		return user.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "user_id", u.ID)
	return token, nil
}

// Authenticate resolves a bearer token to the calling principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	principal, err := s.tokens.VerifyAccessToken(ctx, token)
	if err != nil {
		return user.Principal{}, err
	}
	return principal, nil
}

func (s *AuthService) Me(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Me")
	defer span.End()

	u, exists, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	return u, nil
}

func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.CreateUser")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return user.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return user.User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item := user.User{
		Username:     username,
		PasswordHash: hashed,
		IsAdmin:      input.IsAdmin,
	}
	if err := item.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.userRepo.Create(ctx, item)
	if err != nil {
		return user.User{}, storeError("create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "is_admin", created.IsAdmin)
	return created, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ListUsers")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, actor user.Principal, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.DeleteUser")
	defer span.End()

	if actor.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	}

	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: user=%d", ErrNotFound, userID)
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", userID, "actor_id", actor.UserID)
	return nil
}
