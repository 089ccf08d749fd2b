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
	"go.opentelemetry.io/otel/attribute"
)

const (
	upcomingMatchesLimit     = 10
	defaultRecentMatchesSize = 10
	maxRecentMatchesSize     = 100
)

type MatchView struct {
	Match match.Match
	Team1 TeamLabel
	Team2 TeamLabel
}

type StatView struct {
	Stat           match.Stat
	PlayerNickname string
}

type MatchDetail struct {
	MatchView
	Stats []StatView
}

type MatchFilter struct {
	Type        string
	IsCompleted *bool
}

type CreateMatchInput struct {
	Type          string
	Team1ID       int64
	Team2ID       int64
	MapName       string
	ScheduledDate *time.Time
}

type StatInput struct {
	PlayerID int64
	TeamID   int64
	Half     int
	Kills    int
	Deaths   int
	Flags    int
	IsRinger bool
}

type LoadMatchInput struct {
	Type       string
	Team1ID    int64
	Team2ID    int64
	Team1Score int
	Team2Score int
	MapName    string
	PlayedDate *time.Time
	Stats      []StatInput
}

// UpdateMatchInput applies only the non-nil fields. Player totals are never
// touched by metadata updates.
type UpdateMatchInput struct {
	Type          *string
	Team1ID       *int64
	Team2ID       *int64
	Team1Score    *int
	Team2Score    *int
	MapName       *string
	ScheduledDate *time.Time
	IsCompleted   *bool
}

type MatchService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	now        func() time.Time
	logger     *logging.Logger
}

func NewMatchService(matchRepo match.Repository, teamRepo team.Repository, playerRepo player.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock overrides the time source used for played and upcoming dates.
func (s *MatchService) WithClock(now func() time.Time) *MatchService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *MatchService) List(ctx context.Context, filter MatchFilter) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	var repoFilter match.Filter
	if raw := strings.TrimSpace(filter.Type); raw != "" {
		t, err := match.ParseType(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		repoFilter.Type = &t
	}
	repoFilter.IsCompleted = filter.IsCompleted

	matches, err := s.matchRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return s.views(ctx, matches)
}

func (s *MatchService) Upcoming(ctx context.Context) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Upcoming")
	defer span.End()

	matches, err := s.matchRepo.ListUpcoming(ctx, s.now().UTC(), upcomingMatchesLimit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}
	return s.views(ctx, matches)
}

func (s *MatchService) Recent(ctx context.Context, limit int) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Recent")
	defer span.End()

	switch {
	case limit <= 0:
		limit = defaultRecentMatchesSize
	case limit > maxRecentMatchesSize:
		limit = maxRecentMatchesSize
	}

	matches, err := s.matchRepo.ListRecentCompleted(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}
	return s.views(ctx, matches)
}

func (s *MatchService) Get(ctx context.Context, matchID int64) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	m, err := s.requireMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, err
	}
	stats, err := s.matchRepo.ListStatsByMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list match stats: %w", err)
	}
	return s.detail(ctx, m, stats)
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	item, err := s.newMatch(ctx, input.Type, input.Team1ID, input.Team2ID)
	if err != nil {
		return MatchView{}, err
	}
	item.MapName = strings.TrimSpace(input.MapName)
	item.ScheduledDate = utcPtr(input.ScheduledDate)

	created, err := s.matchRepo.Create(ctx, item)
	if err != nil {
		return MatchView{}, storeError("create match", err)
	}

	s.logger.InfoContext(ctx, "match scheduled", "match_id", created.ID, "match_type", created.Type)
	return s.view(ctx, created)
}

// Load records a completed match together with every player's half lines.
// The match, its rows and the counter adjustments are written atomically.
func (s *MatchService) Load(ctx context.Context, input LoadMatchInput) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Load",
		attribute.Int("ktp.stat_rows", len(input.Stats)))
	defer span.End()

	item, err := s.newMatch(ctx, input.Type, input.Team1ID, input.Team2ID)
	if err != nil {
		return MatchDetail{}, err
	}
	item.Team1Score = input.Team1Score
	item.Team2Score = input.Team2Score
	item.MapName = strings.TrimSpace(input.MapName)
	item.PlayedDate = utcPtr(input.PlayedDate)
	item.Complete(s.now())
	if err := item.Validate(); err != nil {
		return MatchDetail{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stats := make([]match.Stat, 0, len(input.Stats))
	playerIDs := make([]int64, 0, len(input.Stats))
	for _, in := range input.Stats {
		stat := statFromInput(0, in)
		if err := stat.Validate(); err != nil {
			return MatchDetail{}, fmt.Errorf("%w: player %d: %v", ErrInvalidInput, in.PlayerID, err)
		}
		stats = append(stats, stat)
		playerIDs = append(playerIDs, in.PlayerID)
	}
	if err := s.ensurePlayersExist(ctx, playerIDs); err != nil {
		return MatchDetail{}, err
	}
	if err := s.ensureStatTeamsExist(ctx, stats); err != nil {
		return MatchDetail{}, err
	}

	created, saved, err := s.matchRepo.Load(ctx, item, stats)
	if err != nil {
		return MatchDetail{}, storeError("load match", err)
	}

	s.logger.InfoContext(ctx, "match loaded",
		"match_id", created.ID,
		"match_type", created.Type,
		"stat_rows", len(saved),
	)
	return s.detail(ctx, created, saved)
}

func (s *MatchService) Update(ctx context.Context, matchID int64, input UpdateMatchInput) (MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	item, err := s.requireMatch(ctx, matchID)
	if err != nil {
		return MatchView{}, err
	}

	if input.Type != nil {
		t, err := match.ParseType(*input.Type)
		if err != nil {
			return MatchView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		item.Type = t
	}
	if input.Team1ID != nil {
		if _, err := requireTeam(ctx, s.teamRepo, *input.Team1ID); err != nil {
			return MatchView{}, err
		}
		item.Team1ID = *input.Team1ID
	}
	if input.Team2ID != nil {
		if _, err := requireTeam(ctx, s.teamRepo, *input.Team2ID); err != nil {
			return MatchView{}, err
		}
		item.Team2ID = *input.Team2ID
	}
	if input.Team1Score != nil {
		item.Team1Score = *input.Team1Score
	}
	if input.Team2Score != nil {
		item.Team2Score = *input.Team2Score
	}
	if input.MapName != nil && strings.TrimSpace(*input.MapName) != "" {
		item.MapName = strings.TrimSpace(*input.MapName)
	}
	if input.ScheduledDate != nil {
		item.ScheduledDate = utcPtr(input.ScheduledDate)
	}
	if input.IsCompleted != nil {
		if *input.IsCompleted {
			item.Complete(s.now())
		} else {
			item.IsCompleted = false
		}
	}
	if err := item.Validate(); err != nil {
		return MatchView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.matchRepo.Update(ctx, item)
	if err != nil {
		return MatchView{}, storeError("update match", err)
	}
	return s.view(ctx, updated)
}

// Delete removes the match and its rows, reversing their counter
// contributions when the match was completed and not a scrim.
func (s *MatchService) Delete(ctx context.Context, matchID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete", matchIDAttr(matchID))
	defer span.End()

	if _, err := s.requireMatch(ctx, matchID); err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return storeError("delete match", err)
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)
	return nil
}

// AddStat appends one half line to an existing match. Kills, deaths and flags
// feed the player's totals under the usual rules; matches_played does not move.
func (s *MatchService) AddStat(ctx context.Context, matchID int64, input StatInput) (match.Stat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AddStat", matchIDAttr(matchID))
	defer span.End()

	stat := statFromInput(matchID, input)
	if err := stat.Validate(); err != nil {
		return match.Stat{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.requireMatch(ctx, matchID); err != nil {
		return match.Stat{}, err
	}
	if _, err := requirePlayer(ctx, s.playerRepo, input.PlayerID); err != nil {
		return match.Stat{}, err
	}
	if _, err := requireTeam(ctx, s.teamRepo, input.TeamID); err != nil {
		return match.Stat{}, err
	}

	saved, err := s.matchRepo.AddStat(ctx, stat)
	if err != nil {
		return match.Stat{}, storeError("add match stat", err)
	}
	return saved, nil
}

// newMatch checks the pairing before team existence so a self-match is
// always reported as invalid input.
func (s *MatchService) newMatch(ctx context.Context, rawType string, team1ID, team2ID int64) (match.Match, error) {
	t, err := match.ParseType(rawType)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if team1ID == team2ID {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, match.ErrSameTeam)
	}
	if _, err := requireTeam(ctx, s.teamRepo, team1ID); err != nil {
		return match.Match{}, err
	}
	if _, err := requireTeam(ctx, s.teamRepo, team2ID); err != nil {
		return match.Match{}, err
	}
	return match.Match{Type: t, Team1ID: team1ID, Team2ID: team2ID}, nil
}

func (s *MatchService) requireMatch(ctx context.Context, matchID int64) (match.Match, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	return m, nil
}

func (s *MatchService) ensurePlayersExist(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get stat players: %w", err)
	}
	known := make(map[int64]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: player=%d", ErrNotFound, id)
		}
	}
	return nil
}

func (s *MatchService) ensureStatTeamsExist(ctx context.Context, stats []match.Stat) error {
	if len(stats) == 0 {
		return nil
	}
	teams, err := loadTeamIndex(ctx, s.teamRepo)
	if err != nil {
		return err
	}
	for _, stat := range stats {
		if _, ok := teams[stat.TeamID]; !ok {
			return fmt.Errorf("%w: team=%d", ErrNotFound, stat.TeamID)
		}
	}
	return nil
}

func (s *MatchService) view(ctx context.Context, m match.Match) (MatchView, error) {
	views, err := s.views(ctx, []match.Match{m})
	if err != nil {
		return MatchView{}, err
	}
	return views[0], nil
}

func (s *MatchService) views(ctx context.Context, matches []match.Match) ([]MatchView, error) {
	return matchViews(ctx, s.teamRepo, matches)
}

func (s *MatchService) detail(ctx context.Context, m match.Match, stats []match.Stat) (MatchDetail, error) {
	view, err := s.view(ctx, m)
	if err != nil {
		return MatchDetail{}, err
	}

	ids := make([]int64, 0, len(stats))
	for _, stat := range stats {
		ids = append(ids, stat.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get match players: %w", err)
	}
	nicknames := make(map[int64]string, len(players))
	for _, p := range players {
		nicknames[p.ID] = p.Nickname
	}

	out := MatchDetail{MatchView: view, Stats: make([]StatView, 0, len(stats))}
	for _, stat := range stats {
		nickname, ok := nicknames[stat.PlayerID]
		if !ok {
			nickname = unknownPlayer
		}
		out.Stats = append(out.Stats, StatView{Stat: stat, PlayerNickname: nickname})
	}
	return out, nil
}

func matchViews(ctx context.Context, teamRepo team.Repository, matches []match.Match) ([]MatchView, error) {
	if len(matches) == 0 {
		return []MatchView{}, nil
	}
	teams, err := loadTeamIndex(ctx, teamRepo)
	if err != nil {
		return nil, err
	}
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchView{
			Match: m,
			Team1: teams.label(m.Team1ID),
			Team2: teams.label(m.Team2ID),
		})
	}
	return out, nil
}

func statFromInput(matchID int64, in StatInput) match.Stat {
	return match.Stat{
		MatchID:  matchID,
		PlayerID: in.PlayerID,
		TeamID:   in.TeamID,
		Half:     in.Half,
		Kills:    in.Kills,
		Deaths:   in.Deaths,
		Flags:    in.Flags,
		IsRinger: in.IsRinger,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
