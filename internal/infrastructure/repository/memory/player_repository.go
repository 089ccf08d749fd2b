package memory

import (
	"context"

	"github.com/riskibarqy/ktp-league/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	return r.filter(func(player.Player) bool { return true }), nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	return r.filter(func(p player.Player) bool { return p.InTeam(teamID) }), nil
}

func (r *PlayerRepository) ListActive(_ context.Context) ([]player.Player, error) {
	return r.filter(func(p player.Player) bool { return p.Totals.MatchesPlayed > 0 }), nil
}

func (r *PlayerRepository) filter(keep func(player.Player) bool) []player.Player {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(r.store.players))
	for _, id := range sortedKeys(r.store.players) {
		if p := r.store.players[id]; keep(p) {
			out = append(out, clonePlayer(p))
		}
	}
	return out
}

func (r *PlayerRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.players), nil
}

func (r *PlayerRepository) CountByTeam(_ context.Context) (map[int64]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[int64]int)
	for _, p := range r.store.players {
		if p.TeamID != nil {
			out[*p.TeamID]++
		}
	}
	return out, nil
}

func (r *PlayerRepository) CountInTeam(_ context.Context, teamID, excludePlayerID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, p := range r.store.players {
		if p.ID != excludePlayerID && p.InTeam(teamID) {
			count++
		}
	}
	return count, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.players[id]
	return clonePlayer(item), ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.store.players[id]; ok {
			out = append(out, clonePlayer(item))
		}
	}
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.nicknameTaken(item.Nickname, 0) {
		return player.Player{}, player.ErrDuplicateNickname
	}
	if r.rosterFull(item.TeamID, 0) {
		return player.Player{}, player.ErrTeamFull
	}

	item.ID = r.store.nextID("players")
	item.Totals = player.Totals{}
	item.CreatedAt = r.store.now().UTC()
	r.store.players[item.ID] = clonePlayer(item)
	return clonePlayer(item), nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) (player.Player, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.players[item.ID]
	if !ok {
		return player.Player{}, nil
	}
	if r.nicknameTaken(item.Nickname, item.ID) {
		return player.Player{}, player.ErrDuplicateNickname
	}
	if r.rosterFull(item.TeamID, item.ID) {
		return player.Player{}, player.ErrTeamFull
	}

	existing.Nickname = item.Nickname
	existing.TeamID = item.TeamID
	existing = clonePlayer(existing)
	r.store.players[item.ID] = existing
	return clonePlayer(existing), nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.stats {
		if s.PlayerID == id {
			return player.ErrHasStats
		}
	}
	delete(r.store.players, id)
	return nil
}

func (r *PlayerRepository) nicknameTaken(nickname string, exceptID int64) bool {
	for _, p := range r.store.players {
		if p.ID != exceptID && p.Nickname == nickname {
			return true
		}
	}
	return false
}

// rosterFull must be called with the store lock held.
func (r *PlayerRepository) rosterFull(teamID *int64, exceptID int64) bool {
	if teamID == nil {
		return false
	}
	t, ok := r.store.teams[*teamID]
	if !ok || t.IsFreeAgents {
		return false
	}
	count := 0
	for _, p := range r.store.players {
		if p.ID != exceptID && p.InTeam(*teamID) {
			count++
		}
	}
	return !t.HasCapacity(count)
}
