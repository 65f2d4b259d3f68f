package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/document"
)

// UserRepository stores each user as one row with JSONB columns for the
// personal info and both addresses. Email and phone uniqueness is enforced by
// expression indexes on personal_info.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const selectUser = `
	SELECT id, personal_info, residential_address, postal_address, created_at, updated_at
	FROM users`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (personal_info, residential_address, postal_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, document.FromPersonalInfo(u.PersonalInfo), document.FromAddress(u.ResidentialAddress), document.FromAddress(u.PostalAddress),
		u.CreatedAt, u.UpdatedAt)

	if err := row.Scan(&u.ID); err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET personal_info = $1, residential_address = $2, postal_address = $3, updated_at = $4
		WHERE id = $5
	`, document.FromPersonalInfo(u.PersonalInfo), document.FromAddress(u.ResidentialAddress), document.FromAddress(u.PostalAddress),
		u.UpdatedAt, u.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `personal_info->>'email' = $1`, email, excludeID)
}

func (r *UserRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.exists(ctx, `personal_info->>'phone' = $1`, phone, excludeID)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UserRepository) exists(ctx context.Context, cond, value string, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE `+cond+` AND id <> $2)`,
		value, excludeID,
	).Scan(&taken)
	return taken, err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u         entity.User
		pi        document.PersonalInfo
		res, post document.Address
		created   time.Time
		updated   time.Time
	)
	if err := row.Scan(&u.ID, &pi, &res, &post, &created, &updated); err != nil {
		return nil, err
	}
	info, err := pi.Entity()
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.PersonalInfo = info
	u.ResidentialAddress = res.Entity()
	u.PostalAddress = post.Entity()
	u.CreatedAt = created.UTC()
	u.UpdatedAt = updated.UTC()
	return &u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
