package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	ListActive(ctx context.Context) ([]Player, error)
	Count(ctx context.Context) (int, error)
	CountByTeam(ctx context.Context) (map[int64]int, error)
	CountInTeam(ctx context.Context, teamID, excludePlayerID int64) (int, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Player, error)
	// Create and Update return ErrTeamFull when the target roster is capped and full.
	Create(ctx context.Context, item Player) (Player, error)
	// Update writes nickname and team assignment. Totals are never written here.
	Update(ctx context.Context, item Player) (Player, error)
	// Delete returns ErrHasStats when any stats row references the player.
	Delete(ctx context.Context, id int64) error
}
