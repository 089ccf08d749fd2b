package memory

import (
	"context"

	"github.com/riskibarqy/ktp-league/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	for _, id := range sortedKeys(r.store.teams) {
		out = append(out, r.store.teams[id])
	}
	return out, nil
}

func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.teams), nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) GetFreeAgents(_ context.Context) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range sortedKeys(r.store.teams) {
		if item := r.store.teams[id]; item.IsFreeAgents {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.checkUnique(item); err != nil {
		return team.Team{}, err
	}

	item.ID = r.store.nextID("teams")
	item.CreatedAt = r.store.now().UTC()
	r.store.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) (team.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.teams[item.ID]
	if !ok {
		return team.Team{}, nil
	}
	if err := r.checkUnique(item); err != nil {
		return team.Team{}, err
	}

	existing.Name = item.Name
	existing.Tag = item.Tag
	r.store.teams[item.ID] = existing
	return existing, nil
}

func (r *TeamRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, m := range r.store.matches {
		if m.Involves(id) {
			return team.ErrHasMatches
		}
	}
	for _, s := range r.store.stats {
		if s.TeamID == id {
			return team.ErrHasMatches
		}
	}

	for playerID, p := range r.store.players {
		if p.InTeam(id) {
			p.TeamID = nil
			r.store.players[playerID] = p
		}
	}
	delete(r.store.teams, id)
	return nil
}

// checkUnique must be called with the write lock held.
func (r *TeamRepository) checkUnique(item team.Team) error {
	for _, existing := range r.store.teams {
		if existing.ID == item.ID {
			continue
		}
		if existing.Name == item.Name {
			return team.ErrDuplicateName
		}
		if existing.Tag == item.Tag {
			return team.ErrDuplicateTag
		}
	}
	return nil
}
