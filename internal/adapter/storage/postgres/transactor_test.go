package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_WithinTx_Commits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rollback_markers").
		WithArgs("c1", "mod", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT .+ FROM currency_balances .+ FOR UPDATE").
		WithArgs("u1", "gems").
		WillReturnRows(pgxmock.NewRows(balanceRowColumns()).AddRow("gems", "scalar", int64(40), nil, int64(3)))
	mock.ExpectExec("INSERT INTO currency_balances .+ version = currency_balances.version \\+ 1").
		WithArgs("u1", "gems", "scalar", int64(30), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT quantity FROM inventory_items .+ FOR UPDATE").
		WithArgs("u1", "sword").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO inventory_items .+ DO UPDATE SET quantity").
		WithArgs("u1", "sword", int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("UPDATE guild_stock SET stock").
		WithArgs("g1", "sword", int64(2)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectCommit()

	err = tr.WithinTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		marked, err := tx.MarkRolledBack(ctx, "c1", "mod", now)
		if err != nil || !marked {
			return errors.New("marker not written")
		}
		b, err := tx.GetBalance(ctx, "u1", "gems")
		if err != nil {
			return err
		}
		b.Amount -= 10
		if err := tx.PutBalance(ctx, "u1", *b); err != nil {
			return err
		}
		qty, err := tx.GetItemQuantity(ctx, "u1", "sword")
		if err != nil {
			return err
		}
		if err := tx.PutItemQuantity(ctx, "u1", "sword", qty+2); err != nil {
			return err
		}
		applied, err := tx.IncrementStock(ctx, "g1", "sword", 2)
		if err != nil {
			return err
		}
		assert.False(t, applied)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_WithinTx_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock)
	sentinel := errors.New("insufficient sector funds")

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE guild_treasuries SET sector_tax").
		WithArgs("g1", int64(-5)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT sector_tax FROM guild_treasuries").
		WithArgs("g1").
		WillReturnRows(pgxmock.NewRows([]string{"sector_tax"}).AddRow(int64(1)))
	mock.ExpectRollback()

	err = tr.WithinTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		if _, ok, err := tx.IncrementSector(ctx, "g1", domain.SectorTax, -5); err != nil || !ok {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_WithinTx_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err = tr.WithinTx(context.Background(), func(context.Context, ports.LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin ledger tx")
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerTx_PutItemQuantity_RejectsNegative(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = tr.WithinTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		return tx.PutItemQuantity(ctx, "u1", "sword", -1)
	})
	assert.ErrorContains(t, err, "negative")
	assert.NoError(t, mock.ExpectationsWereMet())
}
