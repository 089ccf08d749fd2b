package memory

import (
	"context"
	"strings"

	"github.com/riskibarqy/ktp-league/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]user.User, 0, len(r.store.users))
	for _, id := range sortedKeys(r.store.users) {
		out = append(out, r.store.users[id])
	}
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.users[id]
	return item, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.users {
		if item.Username == username {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) Create(_ context.Context, item user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item.Username = strings.TrimSpace(item.Username)
	for _, existing := range r.store.users {
		if existing.Username == item.Username {
			return user.User{}, user.ErrDuplicateUsername
		}
	}

	item.ID = r.store.nextID("users")
	item.CreatedAt = r.store.now().UTC()
	r.store.users[item.ID] = item
	return item, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return false, nil
	}
	delete(r.store.users, id)
	return true, nil
}
