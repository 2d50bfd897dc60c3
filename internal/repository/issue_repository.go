package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/model"
)

// IssueRepository handles issue data access.
type IssueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository creates a new IssueRepository.
func NewIssueRepository(pool *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{pool: pool}
}

// List returns issues by priority then recency. A non-nil ownerID restricts
// the result to that account's issues.
func (r *IssueRepository) List(ctx context.Context, ownerID *int) ([]model.Issue, error) {
	query, args, err := issueListQuery(ownerID).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		var i model.Issue
		var priority, status string
		if err := rows.Scan(
			&i.ID, &i.AccountID, &i.UserID, &i.ServerID, &i.ServerName, &i.Title, &i.Description,
			&priority, &status, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		i.Priority = model.IssuePriority(priority)
		i.Status = model.IssueStatus(status)
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

// Create inserts an open issue.
func (r *IssueRepository) Create(ctx context.Context, i *model.Issue) error {
	i.Status = model.IssueOpen
	err := r.pool.QueryRow(ctx,
		`INSERT INTO issues (user_id, server_id, title, description, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		i.AccountID, i.ServerID, i.Title, i.Description, string(i.Priority), string(i.Status),
	).Scan(&i.ID, &i.CreatedAt)
	return translate(err, nil)
}

// UpdateStatus sets an issue's status.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id int, status model.IssueStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE issues SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
