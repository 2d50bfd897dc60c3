package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/model"
)

// RequestRepository handles access request data access.
type RequestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository creates a new RequestRepository.
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func scanRequest(row scanner) (*model.AccessRequest, error) {
	var ar model.AccessRequest
	var status string
	err := row.Scan(
		&ar.ID, &ar.AccountID, &ar.UserID, &ar.RequesterName, &ar.ServerID, &ar.ServerName,
		&ar.Type, &ar.Description, &status, &ar.CreatedAt, &ar.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ar.Status = model.RequestStatus(status)
	return &ar, nil
}

// List returns requests newest first, joined with requester and server names.
func (r *RequestRepository) List(ctx context.Context, f model.RequestFilter, p model.Page) ([]model.AccessRequest, error) {
	query, args, err := requestListQuery(f, p).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.AccessRequest{}
	for rows.Next() {
		ar, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *ar)
	}
	return requests, rows.Err()
}

// Count returns the number of requests matching f.
func (r *RequestRepository) Count(ctx context.Context, f model.RequestFilter) (int, error) {
	query, args, err := requestCountQuery(f).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// GetByID retrieves a single request.
func (r *RequestRepository) GetByID(ctx context.Context, id int) (*model.AccessRequest, error) {
	query, args, err := requestSelect().Where("r.id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}
	ar, err := scanRequest(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, nil)
	}
	return ar, nil
}

// Create inserts a request owned by ar.AccountID in the pending state.
func (r *RequestRepository) Create(ctx context.Context, ar *model.AccessRequest) error {
	ar.Status = model.RequestPending
	err := r.pool.QueryRow(ctx,
		`INSERT INTO requests (user_id, server_id, type, description, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		ar.AccountID, ar.ServerID, ar.Type, ar.Description, string(ar.Status),
	).Scan(&ar.ID, &ar.CreatedAt, &ar.UpdatedAt)
	return translate(err, nil)
}

// TransitionStatus moves request id to status `to`, but only while its
// current status is one of `from`. The row is locked for the duration of
// the statement so concurrent transitions serialize. Returns the owning
// account and the status the row held before the update, or ErrNotFound
// when no row qualified (missing or in a disallowed state).
func (r *RequestRepository) TransitionStatus(ctx context.Context, id int, to model.RequestStatus, from []model.RequestStatus) (ownerID int, previous model.RequestStatus, err error) {
	sources := make([]string, len(from))
	for i, s := range from {
		sources[i] = string(s)
	}

	var prev string
	err = r.pool.QueryRow(ctx,
		`WITH prev AS (
			SELECT id, status FROM requests WHERE id = $2 FOR UPDATE
		 )
		 UPDATE requests r SET status = $1, updated_at = NOW()
		 FROM prev
		 WHERE r.id = prev.id AND prev.status = ANY($3)
		 RETURNING r.user_id, prev.status`,
		string(to), id, sources,
	).Scan(&ownerID, &prev)
	if err != nil {
		return 0, "", translate(err, nil)
	}
	return ownerID, model.RequestStatus(prev), nil
}
