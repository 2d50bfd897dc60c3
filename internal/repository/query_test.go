package repository

import (
	"testing"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountListQuery(t *testing.T) {
	t.Run("unfiltered", func(t *testing.T) {
		sql, args, err := accountListQuery(model.AccountFilter{}, model.Page{Limit: 20}).ToSql()
		require.NoError(t, err)
		assert.NotContains(t, sql, "WHERE")
		assert.Contains(t, sql, "LEFT JOIN admins a ON a.user_id = u.user_id")
		assert.Contains(t, sql, "ORDER BY u.created_at DESC, u.id DESC")
		assert.Contains(t, sql, "LIMIT 20")
		assert.NotContains(t, sql, "OFFSET")
		assert.Empty(t, args)
	})

	t.Run("role filter is a bound argument", func(t *testing.T) {
		sql, args, err := accountListQuery(model.AccountFilter{Role: model.RoleStudent}, model.Page{Limit: 5, Offset: 10}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "WHERE u.role = $1")
		assert.NotContains(t, sql, "'student'")
		assert.Contains(t, sql, "LIMIT 5 OFFSET 10")
		assert.Equal(t, []any{"student"}, args)
	})

	t.Run("hostile role value stays out of the SQL", func(t *testing.T) {
		hostile := model.Role("x' OR '1'='1")
		sql, args, err := accountCountQuery(model.AccountFilter{Role: hostile}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM users u WHERE u.role = $1", sql)
		assert.Equal(t, []any{string(hostile)}, args)
	})
}

func TestRequestListQuery(t *testing.T) {
	owner := 42

	sql, args, err := requestListQuery(model.RequestFilter{OwnerID: &owner, Status: model.RequestPending}, model.Page{Limit: 20}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "JOIN users u ON u.id = r.user_id")
	assert.Contains(t, sql, "LEFT JOIN servers s ON s.id = r.server_id")
	assert.Contains(t, sql, "WHERE r.user_id = $1 AND r.status = $2")
	assert.Contains(t, sql, "ORDER BY r.created_at DESC, r.id DESC")
	assert.Equal(t, []any{42, "pending"}, args)

	sql, args, err = requestCountQuery(model.RequestFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM requests r", sql)
	assert.Empty(t, args)
}

func TestIssueAndAllocationQueries(t *testing.T) {
	owner := 7

	sql, args, err := issueListQuery(&owner).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE i.user_id = $1")
	assert.Contains(t, sql, "END DESC, i.created_at DESC")
	assert.Equal(t, []any{7}, args)

	sql, args, err = allocationListQuery(nil).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY ra.allocation_start DESC")
	assert.Empty(t, args)
}
