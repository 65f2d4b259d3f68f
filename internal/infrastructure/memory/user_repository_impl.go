package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// UserRepository keeps users in process memory. The email and phone indexes
// are checked and updated under the same lock as the write, which makes them
// the uniqueness guard for this adapter.
type UserRepository struct {
	mu      sync.RWMutex
	seq     int64
	users   map[int64]*entity.User
	byEmail map[string]int64
	byPhone map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*entity.User),
		byEmail: make(map[string]int64),
		byPhone: make(map[string]int64),
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.PersonalInfo.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	if _, ok := r.byPhone[u.PersonalInfo.Phone]; ok {
		return repository.ErrDuplicatePhone
	}

	r.seq++
	u.ID = r.seq
	r.users[u.ID] = u.Clone()
	r.byEmail[u.PersonalInfo.Email] = u.ID
	r.byPhone[u.PersonalInfo.Phone] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner, ok := r.byEmail[u.PersonalInfo.Email]; ok && owner != u.ID {
		return repository.ErrDuplicateEmail
	}
	if owner, ok := r.byPhone[u.PersonalInfo.Phone]; ok && owner != u.ID {
		return repository.ErrDuplicatePhone
	}

	delete(r.byEmail, current.PersonalInfo.Email)
	delete(r.byPhone, current.PersonalInfo.Phone)
	r.byEmail[u.PersonalInfo.Email] = u.ID
	r.byPhone[u.PersonalInfo.Phone] = u.ID
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, u.PersonalInfo.Email)
	delete(r.byPhone, u.PersonalInfo.Phone)
	delete(r.users, id)
	return nil
}

func (r *UserRepository) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.byEmail[email]
	return ok && owner != excludeID, nil
}

func (r *UserRepository) PhoneTaken(_ context.Context, phone string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.byPhone[phone]
	return ok && owner != excludeID, nil
}

func (r *UserRepository) Ping(context.Context) error { return nil }

var _ repository.UserRepository = (*UserRepository)(nil)
