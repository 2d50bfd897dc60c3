package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/stemsi/command-center/internal/model"
)

// psql builds Postgres statements with $n placeholders. Filter values always
// travel as arguments, never inside the SQL text.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

func paginate(b sq.SelectBuilder, p model.Page) sq.SelectBuilder {
	if p.Limit > 0 {
		b = b.Limit(uint64(p.Limit))
	}
	if p.Offset > 0 {
		b = b.Offset(uint64(p.Offset))
	}
	return b
}

// ─── Accounts ────────────────────────────────────────────────────────────

const accountColumns = `u.id, u.user_id, u.name, u.email, u.phone, u.role, u.password_hash,
	u.created_at, u.updated_at, a.designation, a.research_area, s.department, s.year`

func accountSelect() sq.SelectBuilder {
	return psql.Select(accountColumns).
		From("users u").
		LeftJoin("admins a ON a.user_id = u.user_id").
		LeftJoin("students s ON s.user_id = u.user_id")
}

func filterAccounts(b sq.SelectBuilder, f model.AccountFilter) sq.SelectBuilder {
	if f.Role != "" {
		b = b.Where(sq.Eq{"u.role": string(f.Role)})
	}
	return b
}

func accountListQuery(f model.AccountFilter, p model.Page) sq.SelectBuilder {
	return paginate(filterAccounts(accountSelect(), f).OrderBy("u.created_at DESC", "u.id DESC"), p)
}

func accountCountQuery(f model.AccountFilter) sq.SelectBuilder {
	return filterAccounts(psql.Select("COUNT(*)").From("users u"), f)
}

// ─── Access requests ─────────────────────────────────────────────────────

const requestColumns = `r.id, r.user_id, u.user_id, u.name, r.server_id, s.name,
	r.type, r.description, r.status, r.created_at, r.updated_at`

func filterRequests(b sq.SelectBuilder, f model.RequestFilter) sq.SelectBuilder {
	if f.OwnerID != nil {
		b = b.Where(sq.Eq{"r.user_id": *f.OwnerID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"r.status": string(f.Status)})
	}
	return b
}

func requestSelect() sq.SelectBuilder {
	return psql.Select(requestColumns).
		From("requests r").
		Join("users u ON u.id = r.user_id").
		LeftJoin("servers s ON s.id = r.server_id")
}

func requestListQuery(f model.RequestFilter, p model.Page) sq.SelectBuilder {
	return paginate(filterRequests(requestSelect(), f).OrderBy("r.created_at DESC", "r.id DESC"), p)
}

func requestCountQuery(f model.RequestFilter) sq.SelectBuilder {
	return filterRequests(psql.Select("COUNT(*)").From("requests r"), f)
}

// ─── Issues ──────────────────────────────────────────────────────────────

const issueColumns = `i.id, i.user_id, u.user_id, i.server_id, s.name, i.title, i.description,
	i.priority, i.status, i.created_at`

func issueListQuery(ownerID *int) sq.SelectBuilder {
	b := psql.Select(issueColumns).
		From("issues i").
		Join("users u ON u.id = i.user_id").
		LeftJoin("servers s ON s.id = i.server_id")
	if ownerID != nil {
		b = b.Where(sq.Eq{"i.user_id": *ownerID})
	}
	return b.OrderBy(
		"CASE i.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC",
		"i.created_at DESC",
	)
}

// ─── Allocations ─────────────────────────────────────────────────────────

const allocationColumns = `ra.id, ra.user_id, u.user_id, ra.server_id, s.name, ra.cpu_cores,
	ra.memory_gb, ra.storage_gb, ra.allocation_start, ra.allocation_end, ra.created_at`

func allocationListQuery(ownerID *int) sq.SelectBuilder {
	b := psql.Select(allocationColumns).
		From("resource_allocations ra").
		Join("users u ON u.id = ra.user_id").
		Join("servers s ON s.id = ra.server_id")
	if ownerID != nil {
		b = b.Where(sq.Eq{"ra.user_id": *ownerID})
	}
	return b.OrderBy("ra.allocation_start DESC")
}
