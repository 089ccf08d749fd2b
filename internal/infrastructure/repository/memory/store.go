package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
)

// Store is an in-process database shared by the memory repositories.
// A single lock covers every table so stats writes and counter updates
// are applied together.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	seq     map[string]int64
	users   map[int64]user.User
	teams   map[int64]team.Team
	players map[int64]player.Player
	matches map[int64]match.Match
	stats   map[int64]match.Stat
}

func NewStore() *Store {
	return &Store{
		now:     time.Now,
		seq:     make(map[string]int64),
		users:   make(map[int64]user.User),
		teams:   make(map[int64]team.Team),
		players: make(map[int64]player.Player),
		matches: make(map[int64]match.Match),
		stats:   make(map[int64]match.Stat),
	}
}

// WithClock overrides the timestamp source used for created_at columns.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedKeys[V any](items map[int64]V) []int64 {
	keys := make([]int64, 0, len(items))
	for id := range items {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func clonePlayer(p player.Player) player.Player {
	if p.TeamID != nil {
		teamID := *p.TeamID
		p.TeamID = &teamID
	}
	return p
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneMatch(m match.Match) match.Match {
	m.ScheduledDate = cloneTime(m.ScheduledDate)
	m.PlayedDate = cloneTime(m.PlayedDate)
	return m
}
