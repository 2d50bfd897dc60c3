package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/model"
)

var auditColumns = []string{"request_id", "account_id", "from_status", "to_status", "changed_by", "changed_at"}

// AuditRepository persists request lifecycle events.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch writes all events with a single COPY.
func (r *AuditRepository) InsertBatch(ctx context.Context, events []model.RequestEvent) error {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{
			e.RequestID, e.AccountID, string(e.From), string(e.To), e.ChangedBy, e.ChangedAt,
		})
	}

	_, err := r.pool.CopyFrom(ctx, pgx.Identifier{"request_audit_log"}, auditColumns, pgx.CopyFromRows(rows))
	return err
}

// Insert writes one event.
func (r *AuditRepository) Insert(ctx context.Context, e model.RequestEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO request_audit_log (request_id, account_id, from_status, to_status, changed_by, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.RequestID, e.AccountID, string(e.From), string(e.To), e.ChangedBy, e.ChangedAt,
	)
	return err
}

// ListByRequest returns the recorded transitions of one request, oldest first.
func (r *AuditRepository) ListByRequest(ctx context.Context, requestID int) ([]model.RequestEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT request_id, account_id, from_status, to_status, changed_by, changed_at
		 FROM request_audit_log WHERE request_id = $1 ORDER BY changed_at, id`,
		requestID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.RequestEvent{}
	for rows.Next() {
		var e model.RequestEvent
		var from, to string
		if err := rows.Scan(&e.RequestID, &e.AccountID, &from, &to, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		e.From, e.To = model.RequestStatus(from), model.RequestStatus(to)
		events = append(events, e)
	}
	return events, rows.Err()
}
