// Package ledgerctl implements the operator commands of the ledgerctl binary.
// Every command prints its result as JSON on the configured output.
package ledgerctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"guild-ledger/internal/app"
	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
)

// ErrUsage is returned when the command line cannot be interpreted.
var ErrUsage = errors.New("usage error")

// Env is what a command runs against.
type Env struct {
	Ledger *app.Ledger
	Out    io.Writer
	Err    io.Writer
	// AllowCrossGuild is the default for the rollback -cross-guild flag.
	AllowCrossGuild bool
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error)
}

var commands = []command{
	{"migrate", "apply pending schema migrations or indexes", runMigrate},
	{"health", "ping every configured backend", runHealth},
	{"ensure", "create or load an account", runEnsure},
	{"repair", "fill missing account fields with defaults", runRepair},
	{"status", "change an account status (optimistic)", runStatus},
	{"balance", "show a user's balance", runBalance},
	{"adjust", "apply a signed delta to a user's balance", runAdjust},
	{"transfer", "move currency between two users", runTransfer},
	{"treasury", "show a guild treasury", runTreasury},
	{"deposit", "deposit into a treasury sector", runDeposit},
	{"withdraw", "withdraw from a treasury sector", runWithdraw},
	{"move", "move funds between treasury sectors", runSectorTransfer},
	{"tax", "configure guild tax and thresholds", runTax},
	{"grant", "add items to a user's inventory", runGrant},
	{"remove", "take items from a user's inventory", runRemove},
	{"stock", "set a guild store's stock for one item", runStock},
	{"buy", "purchase items from a guild store", runBuy},
	{"sell", "sell items back to a guild store", runSell},
	{"audit", "query the audit trail", runAudit},
	{"rollback", "revert every mutation of one correlation id", runRollback},
}

// Run dispatches args[0] to its command.
func Run(ctx context.Context, env Env, args []string) error {
	if env.Ledger == nil {
		return errors.New("ledger is required")
	}
	if env.Out == nil {
		return errors.New("output is required")
	}
	if env.Err == nil {
		env.Err = io.Discard
	}
	if len(args) == 0 {
		Usage(env.Err)
		return ErrUsage
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
		fs.SetOutput(env.Err)
		result, err := c.run(ctx, env, fs, args[1:])
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		return writeJSON(env.Out, result)
	}

	Usage(env.Err)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

// Usage lists the commands.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: ledgerctl [-config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// allowOperator grants every adjustment; ledgerctl runs with operator rights.
func allowOperator(context.Context, string, string) bool { return true }

func requireFlags(fs *flag.FlagSet, names ...string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, n := range names {
		if !set[n] {
			return fmt.Errorf("%w: -%s is required", ErrUsage, n)
		}
	}
	return nil
}

func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return requireFlags(fs, required...)
}

func runMigrate(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := env.Ledger.Migrate(ctx); err != nil {
		return nil, err
	}
	return map[string]string{"status": "migrated"}, nil
}

func runHealth(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	timeout := fs.Duration("timeout", 5*time.Second, "ping timeout")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	failures := env.Ledger.CheckHealth(ctx)
	report := make(map[string]string, len(env.Ledger.Health))
	for _, hc := range env.Ledger.Health {
		report[hc.Name()] = "ok"
	}
	names := make([]string, 0, len(failures))
	for name, err := range failures {
		report[name] = err.Error()
		names = append(names, name)
	}
	if len(failures) > 0 {
		sort.Strings(names)
		_ = writeJSON(env.Out, report)
		return nil, fmt.Errorf("unhealthy backends: %v", names)
	}
	return report, nil
}

func runEnsure(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	user := fs.String("user", "", "user id")
	if err := parse(fs, args, "user"); err != nil {
		return nil, err
	}
	return env.Ledger.Accounts.Ensure(ctx, *user)
}

func runRepair(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	user := fs.String("user", "", "user id")
	if err := parse(fs, args, "user"); err != nil {
		return nil, err
	}
	return env.Ledger.Accounts.Repair(ctx, *user)
}

func runStatus(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.StatusUpdateRequest
	var status string
	fs.StringVar(&req.UserID, "user", "", "user id")
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&status, "status", "", "ok, blocked or banned")
	fs.Int64Var(&req.ExpectedVersion, "version", 0, "expected account version")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
	if err := parse(fs, args, "user", "status", "version"); err != nil {
		return nil, err
	}
	req.Status = domain.AccountStatus(status)
	return env.Ledger.Accounts.UpdateStatus(ctx, req)
}

func runBalance(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	user := fs.String("user", "", "user id")
	currency := fs.String("currency", "", "currency id")
	if err := parse(fs, args, "user", "currency"); err != nil {
		return nil, err
	}
	return env.Ledger.Currency.GetBalance(ctx, *user, *currency)
}

func runAdjust(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.AdjustRequest
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.StringVar(&req.TargetID, "user", "", "user id")
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.CurrencyID, "currency", "", "currency id")
	fs.Int64Var(&req.Delta, "delta", 0, "signed amount")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
	fs.StringVar(&req.CorrelationID, "correlation", "", "group with an existing correlation id")
	if err := parse(fs, args, "user", "currency", "delta"); err != nil {
		return nil, err
	}
	req.Source = "ledgerctl"
	return env.Ledger.Currency.AdjustBalance(ctx, req, allowOperator)
}

func runTransfer(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.TransferRequest
	fs.StringVar(&req.SenderID, "from", "", "sender user id")
	fs.StringVar(&req.RecipientID, "to", "", "recipient user id")
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.CurrencyID, "currency", "", "currency id")
	fs.Int64Var(&req.Amount, "amount", 0, "amount to move")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
	if err := parse(fs, args, "from", "to", "currency", "amount"); err != nil {
		return nil, err
	}
	req.Source = "ledgerctl"
	return env.Ledger.Currency.TransferCurrency(ctx, req)
}

func runTreasury(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	guild := fs.String("guild", "", "guild id")
	if err := parse(fs, args, "guild"); err != nil {
		return nil, err
	}
	t, _, err := env.Ledger.Treasury.Ensure(ctx, *guild)
	return t, err
}

func sectorFlags(fs *flag.FlagSet, req *ports.SectorRequest, sector *string) {
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.StringVar(sector, "sector", "", "global, works, trade or tax")
	fs.Int64Var(&req.Amount, "amount", 0, "amount")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
}

func runDeposit(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.SectorRequest
	var sector string
	sectorFlags(fs, &req, &sector)
	taxed := fs.Bool("taxed", false, "apply the guild's tax policy")
	if err := parse(fs, args, "guild", "sector", "amount"); err != nil {
		return nil, err
	}
	req.Sector, req.Source = domain.Sector(sector), "ledgerctl"
	if *taxed {
		return env.Ledger.Treasury.DepositWithTax(ctx, req)
	}
	return env.Ledger.Treasury.DepositToSector(ctx, req)
}

func runWithdraw(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.SectorRequest
	var sector string
	sectorFlags(fs, &req, &sector)
	if err := parse(fs, args, "guild", "sector", "amount"); err != nil {
		return nil, err
	}
	req.Sector, req.Source = domain.Sector(sector), "ledgerctl"
	return env.Ledger.Treasury.WithdrawFromSector(ctx, req)
}

func runSectorTransfer(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.SectorTransferRequest
	var from, to string
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.StringVar(&from, "from", "", "source sector")
	fs.StringVar(&to, "to", "", "destination sector")
	fs.Int64Var(&req.Amount, "amount", 0, "amount")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
	if err := parse(fs, args, "guild", "from", "to", "amount"); err != nil {
		return nil, err
	}
	req.From, req.To, req.Source = domain.Sector(from), domain.Sector(to), "ledgerctl"
	return env.Ledger.Treasury.TransferBetweenSectors(ctx, req)
}

func runTax(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.TaxConfigRequest
	var dest string
	var thresholds domain.TransferThresholds
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.Float64Var(&req.Tax.Rate, "rate", 0, "tax rate between 0 and 1")
	fs.BoolVar(&req.Tax.Enabled, "enabled", true, "enable taxation")
	fs.Int64Var(&req.Tax.MinimumTaxableAmount, "minimum", 0, "smallest taxable amount")
	fs.StringVar(&dest, "sector", string(domain.SectorTax), "sector receiving the tax")
	fs.Int64Var(&req.ExpectedVersion, "version", 0, "expected treasury version")
	fs.Int64Var(&thresholds.Warning, "warning", 0, "warning threshold")
	fs.Int64Var(&thresholds.Alert, "alert", 0, "alert threshold")
	fs.Int64Var(&thresholds.Critical, "critical", 0, "critical threshold")
	if err := parse(fs, args, "guild", "version"); err != nil {
		return nil, err
	}
	req.Tax.DestinationSector = domain.Sector(dest)
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["warning"] || set["alert"] || set["critical"] {
		req.Thresholds = &thresholds
	}
	return env.Ledger.Treasury.ConfigureTax(ctx, req)
}

func itemFlags(fs *flag.FlagSet, req *ports.ItemRequest) {
	fs.StringVar(&req.ActorID, "actor", "", "acting moderator id")
	fs.StringVar(&req.TargetID, "user", "", "user id")
	fs.StringVar(&req.GuildID, "guild", "", "guild id")
	fs.StringVar(&req.ItemID, "item", "", "item id")
	fs.Int64Var(&req.Quantity, "qty", 0, "quantity")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
}

func runGrant(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.ItemRequest
	itemFlags(fs, &req)
	if err := parse(fs, args, "user", "guild", "item", "qty"); err != nil {
		return nil, err
	}
	req.Source = "ledgerctl"
	return env.Ledger.Items.GrantItem(ctx, req)
}

func runRemove(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.ItemRequest
	itemFlags(fs, &req)
	if err := parse(fs, args, "user", "guild", "item", "qty"); err != nil {
		return nil, err
	}
	req.Source = "ledgerctl"
	return env.Ledger.Items.RemoveItem(ctx, req)
}

func runStock(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	guild := fs.String("guild", "", "guild id")
	item := fs.String("item", "", "item id")
	stock := fs.Int64("stock", 0, "units on hand; -1 for unlimited")
	if err := parse(fs, args, "guild", "item", "stock"); err != nil {
		return nil, err
	}
	if err := env.Ledger.Items.SetStock(ctx, *guild, *item, *stock); err != nil {
		return nil, err
	}
	return map[string]any{"guild_id": *guild, "item_id": *item, "stock": *stock}, nil
}

type tradeFlags struct {
	user, guild, item, currency string
	qty, price                  int64
}

func (t *tradeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&t.user, "user", "", "user id")
	fs.StringVar(&t.guild, "guild", "", "guild id")
	fs.StringVar(&t.item, "item", "", "item id")
	fs.StringVar(&t.currency, "currency", "", "currency id")
	fs.Int64Var(&t.qty, "qty", 0, "quantity")
	fs.Int64Var(&t.price, "price", 0, "unit price")
}

func runBuy(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var t tradeFlags
	t.register(fs)
	if err := parse(fs, args, "user", "guild", "item", "currency", "qty", "price"); err != nil {
		return nil, err
	}
	return env.Ledger.Items.Purchase(ctx, ports.PurchaseRequest{
		BuyerID: t.user, GuildID: t.guild, ItemID: t.item, Quantity: t.qty,
		UnitPrice: t.price, CurrencyID: t.currency, Source: "ledgerctl",
	})
}

func runSell(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var t tradeFlags
	t.register(fs)
	if err := parse(fs, args, "user", "guild", "item", "currency", "qty", "price"); err != nil {
		return nil, err
	}
	return env.Ledger.Items.Sell(ctx, ports.SellRequest{
		SellerID: t.user, GuildID: t.guild, ItemID: t.item, Quantity: t.qty,
		UnitPrice: t.price, CurrencyID: t.currency, Source: "ledgerctl",
	})
}

func runAudit(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var f domain.AuditFilter
	var op, from, to string
	fs.StringVar(&f.TargetID, "user", "", "target user id")
	fs.StringVar(&f.ActorID, "actor", "", "actor id")
	fs.StringVar(&f.GuildID, "guild", "", "guild id")
	fs.StringVar(&f.CorrelationID, "correlation", "", "correlation id")
	fs.StringVar(&op, "op", "", "operation type")
	fs.StringVar(&from, "from", "", "earliest timestamp (RFC 3339)")
	fs.StringVar(&to, "to", "", "latest timestamp (RFC 3339)")
	fs.IntVar(&f.Page, "page", 1, "page number")
	fs.IntVar(&f.PageSize, "size", domain.DefaultAuditPageSize, "page size")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	f.OperationType = domain.OperationType(op)
	var err error
	if f.From, err = parseTime("from", from); err != nil {
		return nil, err
	}
	if f.To, err = parseTime("to", to); err != nil {
		return nil, err
	}
	return env.Ledger.Audit.Query(ctx, f)
}

func parseTime(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: -%s: %v", ErrUsage, name, err)
	}
	return &t, nil
}

func runRollback(ctx context.Context, env Env, fs *flag.FlagSet, args []string) (any, error) {
	var req ports.RollbackRequest
	fs.StringVar(&req.CorrelationID, "correlation", "", "correlation id to revert")
	fs.StringVar(&req.ActorID, "actor", "", "acting administrator id")
	fs.StringVar(&req.GuildID, "guild", "", "invoking guild id")
	fs.BoolVar(&req.AllowCrossGuild, "cross-guild", env.AllowCrossGuild, "allow reverting entries of other guilds")
	fs.StringVar(&req.Reason, "reason", "", "reason recorded in the audit trail")
	if err := parse(fs, args, "correlation"); err != nil {
		return nil, err
	}
	return env.Ledger.Rollback.RollbackByCorrelationID(ctx, req)
}
