package ledgerctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"guild-ledger/config"
	"guild-ledger/internal/app"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) (Env, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		Store:  config.StoreConfig{Driver: "memory"},
		Ledger: config.LedgerConfig{StructuredRetryLimit: 3, AuditWorkers: 1},
	}
	l, err := app.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	out := &bytes.Buffer{}
	return Env{Ledger: l, Out: out, Err: &bytes.Buffer{}}, out
}

func run(t *testing.T, env Env, out *bytes.Buffer, args ...string) map[string]any {
	t.Helper()
	out.Reset()
	require.NoError(t, Run(context.Background(), env, args))
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got
}

func TestRun_Usage(t *testing.T) {
	env, _ := newTestEnv(t)
	stderr := &bytes.Buffer{}
	env.Err = stderr

	err := Run(context.Background(), env, nil)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, stderr.String(), "rollback")

	err = Run(context.Background(), env, []string{"explode"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.ErrorContains(t, err, `unknown command "explode"`)
}

func TestRun_RequiresLedgerAndOutput(t *testing.T) {
	assert.Error(t, Run(context.Background(), Env{Out: &bytes.Buffer{}}, []string{"health"}))

	env, _ := newTestEnv(t)
	env.Out = nil
	assert.Error(t, Run(context.Background(), env, []string{"health"}))
}

func TestRun_MissingFlag(t *testing.T) {
	env, _ := newTestEnv(t)

	err := Run(context.Background(), env, []string{"adjust", "-user", "u1", "-delta", "5"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.ErrorContains(t, err, "-currency is required")

	err = Run(context.Background(), env, []string{"balance", "-bogus"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestRun_MigrateAndHealth(t *testing.T) {
	env, out := newTestEnv(t)

	assert.Equal(t, "migrated", run(t, env, out, "migrate")["status"])
	assert.Equal(t, "ok", run(t, env, out, "health")["memory"])
}

func TestRun_AdjustAndBalance(t *testing.T) {
	env, out := newTestEnv(t)

	got := run(t, env, out, "adjust", "-actor", "mod", "-user", "u1", "-guild", "g1", "-currency", "gems", "-delta", "12")
	assert.EqualValues(t, 12, got["After"])
	assert.NotEmpty(t, got["CorrelationID"])

	got = run(t, env, out, "balance", "-user", "u1", "-currency", "gems")
	assert.EqualValues(t, 12, got["amount"])

	err := Run(context.Background(), env, []string{"adjust", "-user", "u1", "-currency", "gems", "-delta", "-20"})
	assert.ErrorContains(t, err, "adjust:")
}

func TestRun_TreasuryCommands(t *testing.T) {
	env, out := newTestEnv(t)

	got := run(t, env, out, "deposit", "-guild", "g1", "-sector", "works", "-amount", "100")
	assert.EqualValues(t, 100, got["After"])

	got = run(t, env, out, "move", "-guild", "g1", "-from", "works", "-to", "trade", "-amount", "40")
	assert.EqualValues(t, 60, got["From"].(map[string]any)["After"])

	got = run(t, env, out, "withdraw", "-guild", "g1", "-sector", "trade", "-amount", "15")
	assert.EqualValues(t, 25, got["After"])

	got = run(t, env, out, "treasury", "-guild", "g1")
	assert.NotEmpty(t, got)
}

func TestRun_ItemCommands(t *testing.T) {
	env, out := newTestEnv(t)

	run(t, env, out, "adjust", "-user", "u1", "-guild", "g1", "-currency", "gems", "-delta", "50")
	run(t, env, out, "stock", "-guild", "g1", "-item", "potion", "-stock", "5")

	got := run(t, env, out, "buy", "-user", "u1", "-guild", "g1", "-item", "potion", "-currency", "gems", "-qty", "2", "-price", "10")
	assert.EqualValues(t, 20, got["Total"])
	assert.EqualValues(t, 2, got["ItemsAfter"])

	got = run(t, env, out, "grant", "-user", "u1", "-guild", "g1", "-item", "potion", "-qty", "3")
	assert.EqualValues(t, 5, got["After"])

	got = run(t, env, out, "remove", "-user", "u1", "-guild", "g1", "-item", "potion", "-qty", "1")
	assert.EqualValues(t, 4, got["After"])
}

func TestRun_AuditRejectsBadTime(t *testing.T) {
	env, _ := newTestEnv(t)

	err := Run(context.Background(), env, []string{"audit", "-from", "yesterday"})
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestRun_Rollback(t *testing.T) {
	env, out := newTestEnv(t)
	ctx := context.Background()

	got := run(t, env, out, "adjust", "-actor", "mod", "-user", "u1", "-guild", "g1", "-currency", "tokens", "-delta", "9")
	correlationID := got["CorrelationID"].(string)
	require.Eventually(t, func() bool {
		entries, err := env.Ledger.Audit.FindByCorrelationKey(ctx, correlationID)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got = run(t, env, out, "audit", "-correlation", correlationID)
	assert.EqualValues(t, 1, got["Total"])

	err := Run(ctx, env, []string{"rollback", "-correlation", correlationID, "-actor", "admin", "-guild", "g2"})
	assert.Error(t, err)

	got = run(t, env, out, "rollback", "-correlation", correlationID, "-actor", "admin", "-guild", "g1")
	assert.NotEmpty(t, got["CorrelationID"])

	got = run(t, env, out, "balance", "-user", "u1", "-currency", "tokens")
	assert.EqualValues(t, 0, got["amount"])
}
