package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/document"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// UserRepository keeps each user as a JSON document under <prefix>user:<id>.
// A sorted set scored by creation time (microseconds) orders the listing, and
// <prefix>email:<email> / <prefix>phone:<phone> keys hold the owning id.
// All writes go through Lua scripts so claims and documents change together.
//
// The scripts build some key names from the prefix, so the store expects a
// single Redis node rather than a cluster.
type UserRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewUserRepository(rdb *redis.Client, prefix string) *UserRepository {
	return &UserRepository{rdb: rdb, prefix: prefix}
}

func (r *UserRepository) seqKey() string          { return r.prefix + "users:seq" }
func (r *UserRepository) createdKey() string      { return r.prefix + "users:by_created" }
func (r *UserRepository) userKey(id int64) string { return r.prefix + "user:" + strconv.FormatInt(id, 10) }
func (r *UserRepository) emailKey(e string) string {
	return r.prefix + "email:" + e
}
func (r *UserRepository) phoneKey(p string) string {
	return r.prefix + "phone:" + p
}

// member pads ids so equal scores fall back to id order in the sorted set.
func member(id int64) string { return fmt.Sprintf("%020d", id) }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	doc, err := json.Marshal(document.FromUser(u))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	res, err := createScript.Run(ctx, r.rdb,
		[]string{r.seqKey(), r.emailKey(u.PersonalInfo.Email), r.phoneKey(u.PersonalInfo.Phone), r.createdKey()},
		doc, u.CreatedAt.UnixMicro(), r.prefix+"user:",
	).Int64()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err := scriptError(res); err != nil {
		return err
	}
	u.ID = res
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var doc document.User
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, r.userKey(id), &doc)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc.Entity(id)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	members, err := r.rdb.ZRevRange(ctx, r.createdKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}

	ids := make([]int64, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad index member %q: %w", m, err)
		}
		ids = append(ids, id)
		keys = append(keys, r.userKey(id))
	}

	docs, found, err := helpers.RedisMGetJSON[document.User](ctx, r.rdb, keys...)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	users := make([]*entity.User, 0, len(docs))
	for i, doc := range docs {
		// deleted between the index read and the MGET
		if !found[i] {
			continue
		}
		u, err := doc.Entity(ids[i])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	doc, err := json.Marshal(document.FromUser(u))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	res, err := updateScript.Run(ctx, r.rdb,
		[]string{r.userKey(u.ID), r.emailKey(u.PersonalInfo.Email), r.phoneKey(u.PersonalInfo.Phone)},
		u.ID, doc, r.prefix,
	).Int64()
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return scriptError(res)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := deleteScript.Run(ctx, r.rdb,
		[]string{r.userKey(id), r.createdKey()},
		r.prefix, member(id),
	).Int64()
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return scriptError(res)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.claimed(ctx, r.emailKey(email), excludeID)
}

func (r *UserRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.claimed(ctx, r.phoneKey(phone), excludeID)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *UserRepository) claimed(ctx context.Context, key string, excludeID int64) (bool, error) {
	owner, err := r.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return owner != excludeID, nil
}

func scriptError(res int64) error {
	switch res {
	case resultNotFound:
		return repository.ErrNotFound
	case resultEmailTaken:
		return repository.ErrDuplicateEmail
	case resultPhoneTaken:
		return repository.ErrDuplicatePhone
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
