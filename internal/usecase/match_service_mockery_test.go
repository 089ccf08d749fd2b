package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	matchmock "github.com/riskibarqy/ktp-league/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/ktp-league/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/ktp-league/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestMatchService_Create_SelfMatchSkipsStoreUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewMatchService(matchRepo, teamRepo, playerRepo, nil)

	_, err := service.Create(context.Background(), CreateMatchInput{Type: "LEAGUE", Team1ID: 7, Team2ID: 7})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_Load_PassesCompletedMatchToStoreUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewMatchService(matchRepo, teamRepo, playerRepo, nil).WithClock(func() time.Time { return testNow })

	teams := []team.Team{{ID: 1, Name: "Allied Force", Tag: "AF"}, {ID: 2, Name: "Axis Squad", Tag: "AX"}}
	teamRepo.On("GetByID", mock.Anything, int64(1)).Return(teams[0], true, nil).Once()
	teamRepo.On("GetByID", mock.Anything, int64(2)).Return(teams[1], true, nil).Once()
	teamRepo.On("List", mock.Anything).Return(teams, nil)
	playerRepo.
		On("GetByIDs", mock.Anything, []int64{10}).
		Return([]player.Player{{ID: 10, Nickname: "sniper"}}, nil).
		Twice()

	matchRepo.
		On("Load", mock.Anything,
			mock.MatchedBy(func(m match.Match) bool {
				return m.IsCompleted && m.PlayedDate != nil && m.PlayedDate.Equal(testNow) && m.Type == match.TypeLeague
			}),
			mock.MatchedBy(func(stats []match.Stat) bool {
				return len(stats) == 1 && stats[0].PlayerID == 10 && stats[0].Kills == 9
			}),
		).
		Return(
			match.Match{ID: 55, Type: match.TypeLeague, Team1ID: 1, Team2ID: 2, IsCompleted: true},
			[]match.Stat{{ID: 900, MatchID: 55, PlayerID: 10, TeamID: 1, Half: 1, Kills: 9}},
			nil,
		).
		Once()

	got, err := service.Load(context.Background(), LoadMatchInput{
		Type: "league", Team1ID: 1, Team2ID: 2,
		Stats: []StatInput{{PlayerID: 10, TeamID: 1, Half: 1, Kills: 9}},
	})
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if got.Match.ID != 55 || len(got.Stats) != 1 || got.Stats[0].PlayerNickname != "sniper" {
		t.Fatalf("unexpected detail: %+v", got)
	}
}

func TestMatchService_Delete_StoreFailureIsWrappedUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo, teammock.NewRepository(t), playermock.NewRepository(t), nil)
	storeErr := errors.New("connection reset")

	matchRepo.On("GetByID", mock.Anything, int64(3)).Return(match.Match{ID: 3}, true, nil).Once()
	matchRepo.On("Delete", mock.Anything, int64(3)).Return(storeErr).Once()

	err := service.Delete(context.Background(), 3)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		t.Fatalf("store failure must not map to a client error: %v", err)
	}
}

func TestTeamService_AddPlayer_FullTeamUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewTeamService(teamRepo, playerRepo, matchmock.NewRepository(t), nil)

	teamRepo.On("GetByID", mock.Anything, int64(4)).Return(team.Team{ID: 4, Name: "Full", Tag: "F"}, true, nil).Once()
	playerRepo.On("GetByID", mock.Anything, int64(8)).Return(player.Player{ID: 8, Nickname: "late"}, true, nil).Once()
	playerRepo.On("CountInTeam", mock.Anything, int64(4), int64(8)).Return(team.MaxPlayers, nil).Once()

	_, _, err := service.AddPlayer(context.Background(), 4, 8)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestTeamService_AddPlayer_RosterFilledConcurrentlyUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewTeamService(teamRepo, playerRepo, matchmock.NewRepository(t), nil)

	teamRepo.On("GetByID", mock.Anything, int64(4)).Return(team.Team{ID: 4, Name: "Nine", Tag: "N"}, true, nil).Once()
	playerRepo.On("GetByID", mock.Anything, int64(8)).Return(player.Player{ID: 8, Nickname: "late"}, true, nil).Once()
	playerRepo.On("CountInTeam", mock.Anything, int64(4), int64(8)).Return(team.MaxPlayers-1, nil).Once()
	playerRepo.On("Update", mock.Anything, mock.AnythingOfType("player.Player")).Return(player.Player{}, player.ErrTeamFull).Once()

	_, _, err := service.AddPlayer(context.Background(), 4, 8)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}
