package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/model"
)

// ServerRepository handles server data access.
type ServerRepository struct {
	pool *pgxpool.Pool
}

// NewServerRepository creates a new ServerRepository.
func NewServerRepository(pool *pgxpool.Pool) *ServerRepository {
	return &ServerRepository{pool: pool}
}

const serverColumns = `id, name, ip_address, status, type, description, created_at`

func scanServer(row scanner) (*model.Server, error) {
	var s model.Server
	var status string
	if err := row.Scan(&s.ID, &s.Name, &s.IPAddress, &status, &s.Type, &s.Description, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Status = model.ServerStatus(status)
	return &s, nil
}

// List returns every server ordered by name.
func (r *ServerRepository) List(ctx context.Context) ([]model.Server, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serverColumns+` FROM servers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servers := []model.Server{}
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, *s)
	}
	return servers, rows.Err()
}

// GetByID retrieves a server by ID.
func (r *ServerRepository) GetByID(ctx context.Context, id int) (*model.Server, error) {
	s, err := scanServer(r.pool.QueryRow(ctx, `SELECT `+serverColumns+` FROM servers WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return s, nil
}

// Create inserts a new server.
func (r *ServerRepository) Create(ctx context.Context, s *model.Server) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO servers (name, ip_address, status, type, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.Name, s.IPAddress, string(s.Status), s.Type, s.Description,
	).Scan(&s.ID, &s.CreatedAt)
	return translate(err, ErrDuplicateServer)
}

// Update replaces a server's mutable fields.
func (r *ServerRepository) Update(ctx context.Context, s *model.Server) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE servers SET name = $1, ip_address = $2, status = $3, type = $4, description = $5
		 WHERE id = $6
		 RETURNING created_at`,
		s.Name, s.IPAddress, string(s.Status), s.Type, s.Description, s.ID,
	).Scan(&s.CreatedAt)
	return translate(err, ErrDuplicateServer)
}

// Delete removes a server. Requests and issues keep their rows with the
// server reference cleared; allocations on it are removed.
func (r *ServerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM servers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
