package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	out := r.filter(func(m match.Match) bool {
		if filter.Type != nil && m.Type != *filter.Type {
			return false
		}
		if filter.IsCompleted != nil && m.IsCompleted != *filter.IsCompleted {
			return false
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) ListRecentCompleted(_ context.Context, limit int) ([]match.Match, error) {
	out := r.filter(func(m match.Match) bool { return m.IsCompleted })
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PlayedDate, out[j].PlayedDate
		switch {
		case a == nil && b == nil:
			return out[i].ID > out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return out[i].ID > out[j].ID
		}
	})
	return truncate(out, limit), nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, from time.Time, limit int) ([]match.Match, error) {
	out := r.filter(func(m match.Match) bool {
		return !m.IsCompleted && m.ScheduledDate != nil && !m.ScheduledDate.Before(from)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(*out[j].ScheduledDate) {
			return out[i].ScheduledDate.Before(*out[j].ScheduledDate)
		}
		return out[i].ID < out[j].ID
	})
	return truncate(out, limit), nil
}

func (r *MatchRepository) ListCompletedByTeam(_ context.Context, teamID int64) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return m.IsCompleted && m.Involves(teamID) }), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.matches[id]
	return cloneMatch(item), ok, nil
}

func (r *MatchRepository) GetByIDs(_ context.Context, ids []int64) ([]match.Match, error) {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.filter(func(m match.Match) bool {
		_, ok := wanted[m.ID]
		return ok
	}), nil
}

func (r *MatchRepository) CountCompleted(_ context.Context) (int, error) {
	return len(r.filter(func(m match.Match) bool { return m.IsCompleted })), nil
}

func (r *MatchRepository) MapPlayCounts(_ context.Context) ([]match.MapCount, error) {
	completed := r.filter(func(m match.Match) bool { return m.IsCompleted && m.MapName != "" })

	index := make(map[string]int)
	out := make([]match.MapCount, 0)
	for _, m := range completed {
		pos, ok := index[m.MapName]
		if !ok {
			pos = len(out)
			index[m.MapName] = pos
			out = append(out, match.MapCount{MapName: m.MapName})
		}
		out[pos].TimesPlayed++
	}
	// stable sort keeps first-seen order between maps with equal counts
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimesPlayed > out[j].TimesPlayed })
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) (match.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.insertLocked(item), nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) (match.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.matches[item.ID]
	if !ok {
		return match.Match{}, fmt.Errorf("match %d does not exist", item.ID)
	}
	item.CreatedAt = existing.CreatedAt
	r.store.matches[item.ID] = cloneMatch(item)
	return cloneMatch(item), nil
}

func (r *MatchRepository) Load(_ context.Context, item match.Match, stats []match.Stat) (match.Match, []match.Stat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range stats {
		if _, ok := r.store.players[s.PlayerID]; !ok {
			return match.Match{}, nil, fmt.Errorf("player %d does not exist", s.PlayerID)
		}
	}
	if dup, ok := match.FindDuplicateStat(stats); ok {
		return match.Match{}, nil, fmt.Errorf("%w: player %d half %d", match.ErrDuplicateStat, dup.PlayerID, dup.Half)
	}

	created := r.insertLocked(item)
	saved := make([]match.Stat, 0, len(stats))
	for _, s := range stats {
		s.MatchID = created.ID
		s.ID = r.store.nextID("player_match_stats")
		r.store.stats[s.ID] = s
		saved = append(saved, s)
	}
	r.applyLocked(match.LoadDeltas(created.Type, saved))

	return created, saved, nil
}

func (r *MatchRepository) AddStat(_ context.Context, stat match.Stat) (match.Stat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.matches[stat.MatchID]
	if !ok {
		return match.Stat{}, fmt.Errorf("match %d does not exist", stat.MatchID)
	}
	if _, ok := r.store.players[stat.PlayerID]; !ok {
		return match.Stat{}, fmt.Errorf("player %d does not exist", stat.PlayerID)
	}
	for _, existing := range r.store.stats {
		if existing.MatchID == stat.MatchID && existing.PlayerID == stat.PlayerID && existing.Half == stat.Half {
			return match.Stat{}, match.ErrDuplicateStat
		}
	}

	stat.ID = r.store.nextID("player_match_stats")
	r.store.stats[stat.ID] = stat
	if delta, ok := match.AddStatDelta(m.Type, stat); ok {
		r.applyLocked([]match.Delta{delta})
	}
	return stat, nil
}

func (r *MatchRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.matches[id]
	if !ok {
		return nil
	}

	stats := make([]match.Stat, 0)
	for _, statID := range sortedKeys(r.store.stats) {
		if s := r.store.stats[statID]; s.MatchID == id {
			stats = append(stats, s)
			delete(r.store.stats, statID)
		}
	}
	r.applyLocked(match.DeleteDeltas(m, stats))
	delete(r.store.matches, id)
	return nil
}

func (r *MatchRepository) ListStatsByMatch(_ context.Context, matchID int64) ([]match.Stat, error) {
	return r.filterStats(func(s match.Stat) bool { return s.MatchID == matchID }), nil
}

func (r *MatchRepository) ListStatsByPlayer(_ context.Context, playerID int64) ([]match.Stat, error) {
	return r.filterStats(func(s match.Stat) bool { return s.PlayerID == playerID }), nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, id := range sortedKeys(r.store.matches) {
		if m := r.store.matches[id]; keep(m) {
			out = append(out, cloneMatch(m))
		}
	}
	return out
}

func (r *MatchRepository) filterStats(keep func(match.Stat) bool) []match.Stat {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Stat, 0)
	for _, id := range sortedKeys(r.store.stats) {
		if s := r.store.stats[id]; keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *MatchRepository) insertLocked(item match.Match) match.Match {
	item.ID = r.store.nextID("matches")
	item.CreatedAt = r.store.now().UTC()
	r.store.matches[item.ID] = cloneMatch(item)
	return cloneMatch(item)
}

func (r *MatchRepository) applyLocked(deltas []match.Delta) {
	for _, d := range deltas {
		p, ok := r.store.players[d.PlayerID]
		if !ok {
			continue
		}
		p.Totals = d.Apply(p.Totals)
		r.store.players[d.PlayerID] = p
	}
}

func truncate(items []match.Match, limit int) []match.Match {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
