package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	Create(ctx context.Context, item User) (User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
