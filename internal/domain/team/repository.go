package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetFreeAgents(ctx context.Context) (Team, bool, error)
	Create(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, item Team) (Team, error)
	// Delete removes the team and clears team_id on its players in one unit of work.
	// It returns ErrHasMatches when any match references the team.
	Delete(ctx context.Context, id int64) error
}
