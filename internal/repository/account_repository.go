package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/database"
	"github.com/stemsi/command-center/internal/model"
)

// AccountRepository handles account and role detail data access.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		a            model.Account
		role         string
		designation  *string
		researchArea *string
		department   *string
		year         *int
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &role, &a.PasswordHash,
		&a.CreatedAt, &a.UpdatedAt, &designation, &researchArea, &department, &year,
	)
	if err != nil {
		return nil, err
	}
	a.Role = model.Role(role)

	switch a.Role {
	case model.RoleAdmin:
		if designation != nil || researchArea != nil {
			a.Detail = &model.RoleDetail{Designation: designation, ResearchArea: researchArea}
		}
	case model.RoleStudent:
		if department != nil || year != nil {
			a.Detail = &model.RoleDetail{Department: department, Year: year}
		}
	}
	return &a, nil
}

func (r *AccountRepository) getOne(ctx context.Context, column string, value any) (*model.Account, error) {
	query, args, err := accountSelect().Where(column+" = ?", value).ToSql()
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, nil)
	}
	return a, nil
}

// GetByUserID retrieves an account by its login identifier.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*model.Account, error) {
	return r.getOne(ctx, "u.user_id", userID)
}

// GetByID retrieves an account by numeric ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return r.getOne(ctx, "u.id", id)
}

// List returns accounts newest first, joined with their role detail.
func (r *AccountRepository) List(ctx context.Context, f model.AccountFilter, p model.Page) ([]model.Account, error) {
	query, args, err := accountListQuery(f, p).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Count returns the number of accounts matching f.
func (r *AccountRepository) Count(ctx context.Context, f model.AccountFilter) (int, error) {
	query, args, err := accountCountQuery(f).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// Create inserts the account and its role detail in one transaction.
// On success a carries its generated ID, timestamps, and detail.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account, detail model.RoleDetail) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (user_id, name, email, phone, role, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at, updated_at`,
			a.UserID, a.Name, a.Email, a.Phone, string(a.Role), a.PasswordHash,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return translate(err, ErrDuplicateAccount)
		}

		if err := insertRoleDetail(ctx, tx, a.UserID, a.Role, detail); err != nil {
			return fmt.Errorf("insert role detail: %w", err)
		}
		a.Detail = &detail
		return nil
	})
}

func insertRoleDetail(ctx context.Context, db database.DBTX, userID string, role model.Role, d model.RoleDetail) error {
	switch role {
	case model.RoleAdmin:
		_, err := db.Exec(ctx,
			`INSERT INTO admins (user_id, designation, research_area) VALUES ($1, $2, $3)`,
			userID, d.Designation, d.ResearchArea,
		)
		return err
	case model.RoleStudent:
		_, err := db.Exec(ctx,
			`INSERT INTO students (user_id, department, year) VALUES ($1, $2, $3)`,
			userID, d.Department, d.Year,
		)
		return err
	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

// UpdatePassword replaces an account's password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account. Role detail, requests, issues and allocations
// go with it through ON DELETE CASCADE.
func (r *AccountRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
