package match

import (
	"context"
	"time"
)

// Repository describes match and stats persistence needs from use cases.
// Every method that writes stats rows also applies the matching player
// counter deltas from this package in the same unit of work.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Match, error)
	ListRecentCompleted(ctx context.Context, limit int) ([]Match, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Match, error)
	ListCompletedByTeam(ctx context.Context, teamID int64) ([]Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Match, error)
	CountCompleted(ctx context.Context) (int, error)
	MapPlayCounts(ctx context.Context) ([]MapCount, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, item Match) (Match, error)
	Load(ctx context.Context, item Match, stats []Stat) (Match, []Stat, error)
	AddStat(ctx context.Context, stat Stat) (Stat, error)
	Delete(ctx context.Context, id int64) error
	ListStatsByMatch(ctx context.Context, matchID int64) ([]Stat, error)
	ListStatsByPlayer(ctx context.Context, playerID int64) ([]Stat, error)
}
