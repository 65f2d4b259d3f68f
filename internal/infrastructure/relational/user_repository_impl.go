package relational

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// UserRepository stores users in three tables: users plus one row each in
// residential_addresses and postal_addresses. Every write runs in a single
// transaction so a user is never visible without both addresses.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := newUserRow(u)
	row.ID = 0

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			return err
		}
		res := &residentialAddressRow{addressColumns: newAddressColumns(row.ID, u.ResidentialAddress)}
		if _, err := tx.NewInsert().Model(res).Exec(ctx); err != nil {
			return fmt.Errorf("insert residential address: %w", err)
		}
		post := &postalAddressRow{addressColumns: newAddressColumns(row.ID, u.PostalAddress)}
		if _, err := tx.NewInsert().Model(post).Exec(ctx); err != nil {
			return fmt.Errorf("insert postal address: %w", err)
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}

	u.ID = row.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().
		Model(row).
		Relation("ResidentialAddress").
		Relation("PostalAddress").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	var rows []userRow
	err := r.db.NewSelect().
		Model(&rows).
		Relation("ResidentialAddress").
		Relation("PostalAddress").
		OrderExpr("u.created_at DESC, u.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toEntity())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := newUserRow(u)

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(row).
			Column("first_name", "last_name", "email", "phone_number", "date_of_birth", "nationality", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n == 0 {
			return repository.ErrNotFound
		}

		resAddr := &residentialAddressRow{addressColumns: newAddressColumns(u.ID, u.ResidentialAddress)}
		if _, err := tx.NewUpdate().
			Model(resAddr).
			Column(addressUpdateColumns...).
			Where("user_id = ?", u.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("update residential address: %w", err)
		}

		postAddr := &postalAddressRow{addressColumns: newAddressColumns(u.ID, u.PostalAddress)}
		if _, err := tx.NewUpdate().
			Model(postAddr).
			Column(addressUpdateColumns...).
			Where("user_id = ?", u.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("update postal address: %w", err)
		}
		return nil
	})
	return translate(err)
}

// Delete removes the user row; the address rows go with it through
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*userRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *UserRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.exists(ctx, "phone_number", phone, excludeID)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UserRepository) exists(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	ok, err := r.db.NewSelect().
		Model((*userRow)(nil)).
		Where("? = ?", bun.Ident(column), value).
		Where("id <> ?", excludeID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return ok, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
