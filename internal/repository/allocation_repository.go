package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/command-center/internal/model"
)

// AllocationRepository handles resource allocation data access.
type AllocationRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates a new AllocationRepository.
func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

// List returns allocations, latest start first.
func (r *AllocationRepository) List(ctx context.Context, ownerID *int) ([]model.Allocation, error) {
	query, args, err := allocationListQuery(ownerID).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := []model.Allocation{}
	for rows.Next() {
		var a model.Allocation
		if err := rows.Scan(
			&a.ID, &a.AccountID, &a.UserID, &a.ServerID, &a.ServerName, &a.CPUCores,
			&a.MemoryGB, &a.StorageGB, &a.AllocationStart, &a.AllocationEnd, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// Create inserts an allocation.
func (r *AllocationRepository) Create(ctx context.Context, a *model.Allocation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO resource_allocations
			(user_id, server_id, cpu_cores, memory_gb, storage_gb, allocation_start, allocation_end)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		a.AccountID, a.ServerID, a.CPUCores, a.MemoryGB, a.StorageGB, a.AllocationStart, a.AllocationEnd,
	).Scan(&a.ID, &a.CreatedAt)
	return translate(err, nil)
}
