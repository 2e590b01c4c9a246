package postgres

import (
	"context"
	"testing"

	"guild-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceRowColumns() []string {
	return []string{"currency_id", "kind", "amount", "parts", "version"}
}

func TestBalanceRepo_Get_Structured(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	mock.ExpectQuery("SELECT .+ FROM currency_balances WHERE user_id").
		WithArgs("u1", "coins").
		WillReturnRows(pgxmock.NewRows(balanceRowColumns()).
			AddRow("coins", "structured", int64(0), []byte(`{"hand":40,"bank":60}`), int64(7)))

	got, err := repo.Get(context.Background(), "u1", "coins")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.CurrencyStructured, got.Kind)
	assert.Equal(t, map[string]int64{"hand": 40, "bank": 60}, got.Parts)
	assert.Equal(t, int64(7), got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Get_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	mock.ExpectQuery("SELECT .+ FROM currency_balances").
		WithArgs("u1", "gems").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.Get(context.Background(), "u1", "gems")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_IncrementScalar(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	mock.ExpectExec("INSERT INTO currency_balances .+ DO NOTHING").
		WithArgs("u1", "gems", "scalar").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("UPDATE currency_balances SET amount = amount \\+ \\$3").
		WithArgs("u1", "gems", int64(25), false).
		WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow(int64(125)))

	after, ok, err := repo.IncrementScalar(context.Background(), "u1", "gems", 25, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(125), after)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_IncrementScalar_GuardFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	mock.ExpectExec("INSERT INTO currency_balances").
		WithArgs("u1", "gems", "scalar").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("UPDATE currency_balances").
		WithArgs("u1", "gems", int64(-50), false).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT .+ FROM currency_balances").
		WithArgs("u1", "gems").
		WillReturnRows(pgxmock.NewRows(balanceRowColumns()).
			AddRow("gems", "scalar", int64(10), nil, int64(4)))

	after, ok, err := repo.IncrementScalar(context.Background(), "u1", "gems", -50, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(10), after)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_IncrementScalar_Overflow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	mock.ExpectExec("INSERT INTO currency_balances").
		WithArgs("u1", "gems", "scalar").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("UPDATE currency_balances").
		WithArgs("u1", "gems", int64(1), true).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "bigint out of range"})

	_, ok, err := repo.IncrementScalar(context.Background(), "u1", "gems", 1, true)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrBalanceOverflow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_CompareAndSwap(t *testing.T) {
	next := domain.Balance{
		CurrencyID: "coins",
		Kind:       domain.CurrencyStructured,
		Parts:      map[string]int64{"hand": 5},
	}

	tests := []struct {
		name            string
		expectedVersion int64
		pattern         string
		affected        int64
		want            bool
	}{
		{name: "first write inserts", expectedVersion: 0, pattern: "INSERT INTO currency_balances .+ WHERE currency_balances.version = \\$6", affected: 1, want: true},
		{name: "matching version updates", expectedVersion: 3, pattern: "UPDATE currency_balances SET kind", affected: 1, want: true},
		{name: "stale version", expectedVersion: 3, pattern: "UPDATE currency_balances SET kind", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewBalanceRepo(mock)
			mock.ExpectExec(tt.pattern).
				WithArgs("u1", "coins", "structured", int64(0), []byte(`{"hand":5}`), tt.expectedVersion).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := repo.CompareAndSwap(context.Background(), "u1", next, tt.expectedVersion)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInventoryRepo_Increment_RefusesNegative(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInventoryRepo(mock)
	mock.ExpectExec("INSERT INTO inventory_items").
		WithArgs("u1", "sword").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("UPDATE inventory_items SET quantity").
		WithArgs("u1", "sword", int64(-3)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT quantity FROM inventory_items").
		WithArgs("u1", "sword").
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(int64(2)))

	after, ok, err := repo.Increment(context.Background(), "u1", "sword", -3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(2), after)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_GetQuantity_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInventoryRepo(mock)
	mock.ExpectQuery("SELECT quantity FROM inventory_items").
		WithArgs("u1", "shield").
		WillReturnError(pgx.ErrNoRows)

	qty, err := repo.GetQuantity(context.Background(), "u1", "shield")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
