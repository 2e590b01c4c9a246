package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"guild-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const auditColumns = `id, operation_type, actor_id, target_id, guild_id, source, reason,
	currency_data, item_data, metadata, created_at`

// AuditRepo implements ports.AuditRepository. The correlation id is copied out of
// the metadata into its own indexed column.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends one entry.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	currencyData, err := encodeJSON(e.CurrencyData)
	if err != nil {
		return fmt.Errorf("encode currency data: %w", err)
	}
	itemData, err := encodeJSON(e.ItemData)
	if err != nil {
		return fmt.Errorf("encode item data: %w", err)
	}
	var metadata []byte
	if len(e.Metadata) > 0 {
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
	}

	query := `INSERT INTO audit_entries (id, operation_type, actor_id, target_id, guild_id, source, reason,
			correlation_id, currency_data, item_data, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		e.ID, string(e.OperationType), e.ActorID, e.TargetID, e.GuildID, e.Source, e.Reason,
		e.CorrelationID(), currencyData, itemData, metadata, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Query returns one page of matching entries, newest first, plus the match count.
func (r *AuditRepo) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	filter = filter.Normalize()
	where, args := auditWhere(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM audit_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM audit_entries%s ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d`,
		auditColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	entries, err := r.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByCorrelationID returns every entry of one correlation group in append order.
func (r *AuditRepo) FindByCorrelationID(ctx context.Context, correlationID string) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries WHERE correlation_id = $1 ORDER BY seq`
	return r.queryEntries(ctx, query, correlationID)
}

// HasRollback reports whether a rollback marker exists.
func (r *AuditRepo) HasRollback(ctx context.Context, correlationID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rollback_markers WHERE correlation_id = $1)`, correlationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check rollback marker: %w", err)
	}
	return exists, nil
}

func (r *AuditRepo) queryEntries(ctx context.Context, query string, args ...any) ([]domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(rows pgx.Rows) (*domain.AuditEntry, error) {
	var (
		e                                domain.AuditEntry
		id                               uuid.UUID
		op                               string
		currencyData, itemData, metadata []byte
	)
	err := rows.Scan(&id, &op, &e.ActorID, &e.TargetID, &e.GuildID, &e.Source, &e.Reason,
		&currencyData, &itemData, &metadata, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("scan audit entry: %w", err)
	}
	e.ID = id
	e.OperationType = domain.OperationType(op)
	e.Timestamp = e.Timestamp.UTC()

	if len(currencyData) > 0 {
		e.CurrencyData = &domain.CurrencyData{}
		if err := json.Unmarshal(currencyData, e.CurrencyData); err != nil {
			return nil, fmt.Errorf("decode currency data: %w", err)
		}
	}
	if len(itemData) > 0 {
		e.ItemData = &domain.ItemData{}
		if err := json.Unmarshal(itemData, e.ItemData); err != nil {
			return nil, fmt.Errorf("decode item data: %w", err)
		}
	}
	if len(metadata) > 0 {
		// UseNumber keeps large integers exact.
		dec := json.NewDecoder(bytes.NewReader(metadata))
		dec.UseNumber()
		if err := dec.Decode(&e.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &e, nil
}

// auditWhere renders the filter as a WHERE clause with positional arguments.
func auditWhere(f domain.AuditFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.TargetID != "" {
		add("target_id = $%d", f.TargetID)
	}
	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.GuildID != "" {
		add("guild_id = $%d", f.GuildID)
	}
	if f.CorrelationID != "" {
		add("correlation_id = $%d", f.CorrelationID)
	}
	if f.OperationType != "" {
		add("operation_type = $%d", string(f.OperationType))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// encodeJSON returns nil for nil values so the column stays NULL.
func encodeJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
