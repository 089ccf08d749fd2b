package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

type TeamSummary struct {
	Team        team.Team
	PlayerCount int
}

type TeamDetail struct {
	Team          team.Team
	Players       []player.Player
	MatchesPlayed int
	Wins          int
	Losses        int
}

type CreateTeamInput struct {
	Name         string
	Tag          string
	IsFreeAgents bool
}

// UpdateTeamInput applies only the non-nil fields.
type UpdateTeamInput struct {
	Name *string
	Tag  *string
}

type TeamService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	logger     *logging.Logger
}

func NewTeamService(teamRepo team.Repository, playerRepo player.Repository, matchRepo match.Repository, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		logger:     logger,
	}
}

func (s *TeamService) List(ctx context.Context) ([]TeamSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	counts, err := s.playerRepo.CountByTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("count players by team: %w", err)
	}

	out := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamSummary{Team: t, PlayerCount: counts[t.ID]})
	}
	return out, nil
}

func (s *TeamService) Get(ctx context.Context, teamID int64) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	t, err := requireTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return TeamDetail{}, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list team players: %w", err)
	}
	matches, err := s.matchRepo.ListCompletedByTeam(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list team matches: %w", err)
	}

	record := match.TeamRecord(teamID, matches)
	return TeamDetail{
		Team:          t,
		Players:       players,
		MatchesPlayed: record.Matches,
		Wins:          record.Wins,
		Losses:        record.Losses,
	}, nil
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	item := team.Team{
		Name:         strings.TrimSpace(input.Name),
		Tag:          strings.TrimSpace(input.Tag),
		IsFreeAgents: input.IsFreeAgents,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.teamRepo.Create(ctx, item)
	if err != nil {
		return team.Team{}, storeError("create team", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", created.ID, "tag", created.Tag)
	return created, nil
}

func (s *TeamService) Update(ctx context.Context, teamID int64, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	item, err := requireTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return team.Team{}, err
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Tag != nil {
		item.Tag = strings.TrimSpace(*input.Tag)
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.teamRepo.Update(ctx, item)
	if err != nil {
		return team.Team{}, storeError("update team", err)
	}
	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, teamID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	if _, err := requireTeam(ctx, s.teamRepo, teamID); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return storeError("delete team", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", teamID)
	return nil
}

// AddPlayer moves a player onto the team, enforcing the roster cap.
func (s *TeamService) AddPlayer(ctx context.Context, teamID, playerID int64) (team.Team, player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AddPlayer")
	defer span.End()

	t, err := requireTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return team.Team{}, player.Player{}, err
	}
	p, err := requirePlayer(ctx, s.playerRepo, playerID)
	if err != nil {
		return team.Team{}, player.Player{}, err
	}
	if err := ensureCapacity(ctx, s.playerRepo, t, playerID); err != nil {
		return team.Team{}, player.Player{}, err
	}

	p.TeamID = &t.ID
	updated, err := s.playerRepo.Update(ctx, p)
	if err != nil {
		return team.Team{}, player.Player{}, storeError("assign player to team", err)
	}
	return t, updated, nil
}

// RemovePlayer clears the team of a player currently on that team.
func (s *TeamService) RemovePlayer(ctx context.Context, teamID, playerID int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemovePlayer")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists || !p.InTeam(teamID) {
		return player.Player{}, fmt.Errorf("%w: player=%d not in team=%d", ErrNotFound, playerID, teamID)
	}

	p.TeamID = nil
	updated, err := s.playerRepo.Update(ctx, p)
	if err != nil {
		return player.Player{}, storeError("remove player from team", err)
	}
	return updated, nil
}
