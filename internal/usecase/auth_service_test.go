package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/repository/memory"
)

// stubTokens encodes the username into the token so tests can round-trip it.
type stubTokens struct {
	users user.Repository
}

func (s stubTokens) IssueAccessToken(_ context.Context, u user.User) (user.AccessToken, error) {
	return user.AccessToken{Token: "tok-" + u.Username, TokenType: "bearer", ExpiresAt: testNow}, nil
}

func (s stubTokens) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	username, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: malformed token", ErrUnauthorized)
	}
	u, exists, err := s.users.GetByUsername(ctx, username)
	if err != nil || !exists {
		return user.Principal{}, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
	}
	return u.Principal(), nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memory.UserRepository, *memory.TeamRepository) {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	teams := memory.NewTeamRepository(store)
	if err := NewBootstrapService(users, teams, testHasher(), "", "", nil).Run(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return NewAuthService(users, stubTokens{users: users}, testHasher(), nil), users, teams
}

func TestBootstrapService_SeedsOnceAndIsIdempotent(t *testing.T) {
	svc, users, teams := newAuthFixture(t)
	ctx := context.Background()

	if err := NewBootstrapService(users, teams, testHasher(), "", "", nil).Run(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	all, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 1 || all[0].Username != user.DefaultAdminUsername || !all[0].IsAdmin {
		t.Fatalf("unexpected users after bootstrap: %+v", all)
	}

	allTeams, err := teams.List(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(allTeams) != 1 || !allTeams[0].IsFreeAgents || allTeams[0].Name != team.FreeAgentsName {
		t.Fatalf("unexpected teams after bootstrap: %+v", allTeams)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, " admin ", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.Token != "tok-admin" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token: %+v", token)
	}

	principal, err := svc.Authenticate(ctx, token.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !principal.IsAdmin || principal.Username != "admin" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	me, err := svc.Me(ctx, principal)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != principal.UserID {
		t.Fatalf("unexpected me: %+v", me)
	}

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "wrong password", username: "admin", password: "nope", want: ErrUnauthorized},
		{name: "unknown user", username: "ghost", password: "admin", want: ErrUnauthorized},
		{name: "blank password", username: "admin", password: "", want: ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_CreateAndDeleteUsers(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	admin, err := svc.Authenticate(ctx, "tok-admin")
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}

	created, err := svc.CreateUser(ctx, CreateUserInput{Username: "referee", Password: "whistle"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.IsAdmin || created.PasswordHash == "whistle" {
		t.Fatalf("unexpected created user: %+v", created)
	}
	if _, err := svc.Login(ctx, "referee", "whistle"); err != nil {
		t.Fatalf("login as new user: %v", err)
	}

	if _, err := svc.CreateUser(ctx, CreateUserInput{Username: "referee", Password: "other"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, CreateUserInput{Username: "x", Password: strings.Repeat("p", 80)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long password, got %v", err)
	}

	if err := svc.DeleteUser(ctx, admin, admin.UserID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on self delete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, created.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Me(ctx, created.Principal()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted user, got %v", err)
	}
}
