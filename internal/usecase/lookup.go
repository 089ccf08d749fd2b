package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
)

const (
	unknownTeamName = "Unknown"
	unknownTeamTag  = "???"
	unknownPlayer   = "Unknown"
)

// TeamLabel is the display name and tag of a team referenced by a match.
type TeamLabel struct {
	Name string
	Tag  string
}

type teamIndex map[int64]team.Team

func loadTeamIndex(ctx context.Context, repo team.Repository) (teamIndex, error) {
	teams, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(teamIndex, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out, nil
}

func (idx teamIndex) label(id int64) TeamLabel {
	t, ok := idx[id]
	if !ok {
		return TeamLabel{Name: unknownTeamName, Tag: unknownTeamTag}
	}
	return TeamLabel{Name: t.Name, Tag: t.Tag}
}

// name returns the team name or "" for unassigned or unknown teams.
func (idx teamIndex) name(id *int64) string {
	if id == nil {
		return ""
	}
	return idx[*id].Name
}

func requireTeam(ctx context.Context, repo team.Repository, id int64) (team.Team, error) {
	t, exists, err := repo.GetByID(ctx, id)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}
	return t, nil
}

func requirePlayer(ctx context.Context, repo player.Repository, id int64) (player.Player, error) {
	p, exists, err := repo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}
	return p, nil
}

// ensureCapacity rejects moving playerID into a full non free-agents team.
func ensureCapacity(ctx context.Context, repo player.Repository, t team.Team, playerID int64) error {
	if t.IsFreeAgents {
		return nil
	}
	current, err := repo.CountInTeam(ctx, t.ID, playerID)
	if err != nil {
		return fmt.Errorf("count team players: %w", err)
	}
	if !t.HasCapacity(current) {
		return fmt.Errorf("%w: team %d already has %d players", ErrCapacityExceeded, t.ID, team.MaxPlayers)
	}
	return nil
}
