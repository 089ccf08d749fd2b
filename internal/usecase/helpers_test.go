package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ktp-league/internal/platform/password"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

type league struct {
	store   *memory.Store
	users   *memory.UserRepository
	teams   *memory.TeamRepository
	players *memory.PlayerRepository
	matches *memory.MatchRepository

	teamSvc   *TeamService
	playerSvc *PlayerService
	matchSvc  *MatchService
	statsSvc  *StatsService
}

func newLeague(t *testing.T) *league {
	t.Helper()

	store := memory.NewStore().WithClock(func() time.Time { return testNow })
	l := &league{
		store:   store,
		users:   memory.NewUserRepository(store),
		teams:   memory.NewTeamRepository(store),
		players: memory.NewPlayerRepository(store),
		matches: memory.NewMatchRepository(store),
	}
	l.teamSvc = NewTeamService(l.teams, l.players, l.matches, nil)
	l.playerSvc = NewPlayerService(l.players, l.teams, l.matches, nil)
	l.matchSvc = NewMatchService(l.matches, l.teams, l.players, nil).WithClock(func() time.Time { return testNow })
	l.statsSvc = NewStatsService(l.players, l.teams, l.matches).WithClock(func() time.Time { return testNow })
	return l
}

func testHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

func (l *league) team(t *testing.T, name, tag string) team.Team {
	t.Helper()
	created, err := l.teamSvc.Create(context.Background(), CreateTeamInput{Name: name, Tag: tag})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return created
}

func (l *league) freeAgents(t *testing.T) team.Team {
	t.Helper()
	created, err := l.teams.Create(context.Background(), team.Team{
		Name:         team.FreeAgentsName,
		Tag:          team.FreeAgentsTag,
		IsFreeAgents: true,
	})
	if err != nil {
		t.Fatalf("create free agents: %v", err)
	}
	return created
}

func (l *league) player(t *testing.T, nickname string, teamID *int64) player.Player {
	t.Helper()
	created, err := l.playerSvc.Create(context.Background(), CreatePlayerInput{Nickname: nickname, TeamID: teamID})
	if err != nil {
		t.Fatalf("create player %s: %v", nickname, err)
	}
	return created
}

func (l *league) totals(t *testing.T, playerID int64) player.Totals {
	t.Helper()
	p, exists, err := l.players.GetByID(context.Background(), playerID)
	if err != nil || !exists {
		t.Fatalf("get player %d: exists=%t err=%v", playerID, exists, err)
	}
	return p.Totals
}

func ptr[T any](v T) *T {
	return &v
}
