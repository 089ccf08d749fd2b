package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

type PlayerSummary struct {
	Player   player.Player
	TeamName string
}

// HistoryEntry is one match in a player's history with the player's halves summed.
type HistoryEntry struct {
	MatchID     int64
	Type        match.Type
	Team1       TeamLabel
	Team2       TeamLabel
	Team1Score  int
	Team2Score  int
	MapName     string
	PlayedDate  *time.Time
	IsCompleted bool
	Kills       int
	Deaths      int
	Flags       int
}

type PlayerDetail struct {
	Player   player.Player
	TeamName string
	History  []HistoryEntry
}

type CreatePlayerInput struct {
	Nickname string
	TeamID   *int64
}

// UpdatePlayerInput applies only the non-nil fields. TeamID 0 clears the team.
type UpdatePlayerInput struct {
	Nickname *string
	TeamID   *int64
}

type PlayerService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	logger     *logging.Logger
}

func NewPlayerService(playerRepo player.Repository, teamRepo team.Repository, matchRepo match.Repository, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		logger:     logger,
	}
}

func (s *PlayerService) List(ctx context.Context) ([]PlayerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	teams, err := loadTeamIndex(ctx, s.teamRepo)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerSummary{Player: p, TeamName: teams.name(p.TeamID)})
	}
	return out, nil
}

func (s *PlayerService) Get(ctx context.Context, playerID int64) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	p, err := requirePlayer(ctx, s.playerRepo, playerID)
	if err != nil {
		return PlayerDetail{}, err
	}

	stats, err := s.matchRepo.ListStatsByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list player stats: %w", err)
	}
	lines := match.LinesByMatch(stats)

	matchIDs := make([]int64, 0, len(lines))
	for _, line := range lines {
		matchIDs = append(matchIDs, line.MatchID)
	}
	matches, err := s.matchRepo.GetByIDs(ctx, matchIDs)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get history matches: %w", err)
	}
	matchByID := make(map[int64]match.Match, len(matches))
	for _, m := range matches {
		matchByID[m.ID] = m
	}

	teams, err := loadTeamIndex(ctx, s.teamRepo)
	if err != nil {
		return PlayerDetail{}, err
	}

	history := make([]HistoryEntry, 0, len(lines))
	for _, line := range lines {
		m, ok := matchByID[line.MatchID]
		if !ok {
			continue
		}
		history = append(history, HistoryEntry{
			MatchID:     m.ID,
			Type:        m.Type,
			Team1:       teams.label(m.Team1ID),
			Team2:       teams.label(m.Team2ID),
			Team1Score:  m.Team1Score,
			Team2Score:  m.Team2Score,
			MapName:     m.MapName,
			PlayedDate:  m.PlayedDate,
			IsCompleted: m.IsCompleted,
			Kills:       line.Kills,
			Deaths:      line.Deaths,
			Flags:       line.Flags,
		})
	}

	return PlayerDetail{
		Player:   p,
		TeamName: teams.name(p.TeamID),
		History:  history,
	}, nil
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	item := player.Player{Nickname: strings.TrimSpace(input.Nickname)}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if input.TeamID != nil && *input.TeamID != 0 {
		t, err := requireTeam(ctx, s.teamRepo, *input.TeamID)
		if err != nil {
			return player.Player{}, err
		}
		if err := ensureCapacity(ctx, s.playerRepo, t, 0); err != nil {
			return player.Player{}, err
		}
		item.TeamID = &t.ID
	}

	created, err := s.playerRepo.Create(ctx, item)
	if err != nil {
		return player.Player{}, storeError("create player", err)
	}

	s.logger.InfoContext(ctx, "player created", "player_id", created.ID)
	return created, nil
}

func (s *PlayerService) Update(ctx context.Context, playerID int64, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	item, err := requirePlayer(ctx, s.playerRepo, playerID)
	if err != nil {
		return player.Player{}, err
	}

	if input.Nickname != nil {
		item.Nickname = strings.TrimSpace(*input.Nickname)
		if err := item.Validate(); err != nil {
			return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if input.TeamID != nil {
		if *input.TeamID == 0 {
			item.TeamID = nil
		} else {
			t, err := requireTeam(ctx, s.teamRepo, *input.TeamID)
			if err != nil {
				return player.Player{}, err
			}
			if err := ensureCapacity(ctx, s.playerRepo, t, playerID); err != nil {
				return player.Player{}, err
			}
			item.TeamID = &t.ID
		}
	}

	updated, err := s.playerRepo.Update(ctx, item)
	if err != nil {
		return player.Player{}, storeError("update player", err)
	}
	return updated, nil
}

func (s *PlayerService) Delete(ctx context.Context, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if _, err := requirePlayer(ctx, s.playerRepo, playerID); err != nil {
		return err
	}
	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		return storeError("delete player", err)
	}

	s.logger.InfoContext(ctx, "player deleted", "player_id", playerID)
	return nil
}
