package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultLeaderboardLimit = 50
	dashboardListSize       = 5
	dashboardFlightKey      = "dashboard"
)

// Leaderboard sort keys.
const (
	SortByKDRatio       = "kd_ratio"
	SortByKills         = "kills"
	SortByDeaths        = "deaths"
	SortByFlags         = "flags"
	SortByMatches       = "matches"
	SortByMatchesPlayed = "matches_played"
)

type LeaderboardEntry struct {
	Player   player.Player
	TeamName string
	KDRatio  float64
}

type Dashboard struct {
	TotalMatches  int
	TotalTeams    int
	TotalPlayers  int
	MostPlayedMap *match.MapCount
	TopKDPlayer   *LeaderboardEntry
	TopFlags      *LeaderboardEntry
	Recent        []MatchView
	Upcoming      []MatchView
}

type TeamStats struct {
	Team   team.Team
	Record match.Record
}

type StatsService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	flight     resilience.Group[Dashboard]
	now        func() time.Time
}

func NewStatsService(playerRepo player.Repository, teamRepo team.Repository, matchRepo match.Repository) *StatsService {
	return &StatsService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		now:        time.Now,
	}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	if now != nil {
		s.now = now
	}
	return s
}

// Leaderboard ranks players who have played at least one counted match.
// Unknown sort keys fall back to kd_ratio. Ties keep player id order.
func (s *StatsService) Leaderboard(ctx context.Context, sortBy string, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboard")
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.activeEntries(ctx)
	if err != nil {
		return nil, err
	}

	less := leaderboardOrder(sortBy)
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Dashboard fans the independent reads out concurrently. Concurrent callers
// share one in-flight computation.
func (s *StatsService) Dashboard(ctx context.Context) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Dashboard")
	defer span.End()

	// Joined callers must not inherit the leader's cancellation.
	shared := context.WithoutCancel(ctx)
	dash, err, _ := s.flight.Do(dashboardFlightKey, func() (Dashboard, error) {
		return s.buildDashboard(shared)
	})
	if err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

func (s *StatsService) buildDashboard(ctx context.Context) (Dashboard, error) {
	var (
		out      Dashboard
		maps     []match.MapCount
		entries  []LeaderboardEntry
		recent   []match.Match
		upcoming []match.Match
	)
	now := s.now().UTC()

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		n, err := s.matchRepo.CountCompleted(ctx)
		if err != nil {
			return fmt.Errorf("count completed matches: %w", err)
		}
		out.TotalMatches = n
		return nil
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.teamRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count teams: %w", err)
		}
		out.TotalTeams = n
		return nil
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.playerRepo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count players: %w", err)
		}
		out.TotalPlayers = n
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		maps, err = s.matchRepo.MapPlayCounts(ctx)
		if err != nil {
			return fmt.Errorf("map play counts: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.activeEntries(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		recent, err = s.matchRepo.ListRecentCompleted(ctx, dashboardListSize)
		if err != nil {
			return fmt.Errorf("list recent matches: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		upcoming, err = s.matchRepo.ListUpcoming(ctx, now, dashboardListSize)
		if err != nil {
			return fmt.Errorf("list upcoming matches: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	if len(maps) > 0 {
		top := maps[0]
		out.MostPlayedMap = &top
	}
	out.TopKDPlayer = topEntry(entries, leaderboardOrder(SortByKDRatio))
	out.TopFlags = topEntry(entries, leaderboardOrder(SortByFlags))

	var err error
	if out.Recent, err = matchViews(ctx, s.teamRepo, recent); err != nil {
		return Dashboard{}, err
	}
	if out.Upcoming, err = matchViews(ctx, s.teamRepo, upcoming); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *StatsService) Maps(ctx context.Context) ([]match.MapCount, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Maps")
	defer span.End()

	maps, err := s.matchRepo.MapPlayCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("map play counts: %w", err)
	}
	return maps, nil
}

func (s *StatsService) TeamStats(ctx context.Context, teamID int64) (TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamStats")
	defer span.End()

	t, err := requireTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return TeamStats{}, err
	}
	matches, err := s.matchRepo.ListCompletedByTeam(ctx, teamID)
	if err != nil {
		return TeamStats{}, fmt.Errorf("list team matches: %w", err)
	}
	return TeamStats{Team: t, Record: match.TeamRecord(teamID, matches)}, nil
}

func (s *StatsService) activeEntries(ctx context.Context) ([]LeaderboardEntry, error) {
	players, err := s.playerRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}
	teams, err := loadTeamIndex(ctx, s.teamRepo)
	if err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		out = append(out, LeaderboardEntry{
			Player:   p,
			TeamName: teams.name(p.TeamID),
			KDRatio:  p.KDRatio(),
		})
	}
	return out, nil
}

func leaderboardOrder(sortBy string) func(a, b LeaderboardEntry) bool {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortByKills:
		return func(a, b LeaderboardEntry) bool { return a.Player.Totals.Kills > b.Player.Totals.Kills }
	case SortByDeaths:
		return func(a, b LeaderboardEntry) bool { return a.Player.Totals.Deaths > b.Player.Totals.Deaths }
	case SortByFlags:
		return func(a, b LeaderboardEntry) bool { return a.Player.Totals.Flags > b.Player.Totals.Flags }
	case SortByMatches, SortByMatchesPlayed:
		return func(a, b LeaderboardEntry) bool {
			return a.Player.Totals.MatchesPlayed > b.Player.Totals.MatchesPlayed
		}
	default:
		return func(a, b LeaderboardEntry) bool { return a.KDRatio > b.KDRatio }
	}
}

// topEntry returns the first entry no other entry ranks above, or nil.
func topEntry(entries []LeaderboardEntry, less func(a, b LeaderboardEntry) bool) *LeaderboardEntry {
	if len(entries) == 0 {
		return nil
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if less(e, best) {
			best = e
		}
	}
	return &best
}
