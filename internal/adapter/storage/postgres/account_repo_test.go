package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"guild-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountColumns() []string {
	return []string{"user_id", "status", "created_at", "updated_at", "last_activity_at", "version"}
}

func newTestAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.NewAccount("u1", now)
}

func TestAccountRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	status := "ok"
	version := int64(3)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE user_id").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(accountColumns()).
			AddRow("u1", &status, &now, &now, (*time.Time)(nil), &version))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ok", *got.Status)
	assert.Equal(t, int64(3), *got.Version)
	assert.Nil(t, got.LastActivityAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	mock.ExpectQuery("SELECT .+ FROM accounts").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.Get(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_Insert(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "created", affected: 1, want: true},
		{name: "lost race", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewAccountRepo(mock)
			a := newTestAccount()

			mock.ExpectExec("INSERT INTO accounts .+ ON CONFLICT \\(user_id\\) DO NOTHING").
				WithArgs(a.UserID, string(a.Status), a.CreatedAt, a.UpdatedAt, a.LastActivityAt, a.Version).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			created, err := repo.Insert(context.Background(), a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepo_UpdateStatus_VersionGuard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE accounts SET status").
		WithArgs("u1", "blocked", now, int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.UpdateStatus(context.Background(), "u1", domain.AccountStatusBlocked, 2, now)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_TouchActivity_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE accounts SET last_activity_at").
		WithArgs("u1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.TouchActivity(context.Background(), "u1", now)
	assert.ErrorContains(t, err, "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_ReplaceIfVersion(t *testing.T) {
	stored := int64(3)
	tests := []struct {
		name     string
		expected *int64
		rows     int64
		want     bool
	}{
		{name: "version matches", expected: &stored, rows: 1, want: true},
		{name: "version moved on", expected: &stored, rows: 0, want: false},
		{name: "null version", expected: nil, rows: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewAccountRepo(mock)
			a := newTestAccount()

			mock.ExpectExec("UPDATE accounts SET status .+ version IS NOT DISTINCT FROM").
				WithArgs(a.UserID, string(a.Status), a.CreatedAt, a.UpdatedAt, a.LastActivityAt, a.Version, tt.expected).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.rows))

			replaced, err := repo.ReplaceIfVersion(context.Background(), a, tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, replaced)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepo_ReplaceIfVersion_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	a := newTestAccount()

	mock.ExpectExec("UPDATE accounts SET status").
		WithArgs(a.UserID, string(a.Status), a.CreatedAt, a.UpdatedAt, a.LastActivityAt, a.Version, pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.ReplaceIfVersion(context.Background(), a, nil)
	assert.ErrorContains(t, err, "replace account")
	assert.NoError(t, mock.ExpectationsWereMet())
}
