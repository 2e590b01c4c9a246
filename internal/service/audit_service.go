package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// AuditOptions sizes the append pool and the marker cache.
type AuditOptions struct {
	Workers   int
	QueueSize int
	MarkerTTL time.Duration
}

// AuditServiceImpl implements ports.AuditService. Appends made through Create run on
// a bounded worker pool so callers never wait on the store. Reads by correlation id
// wait for that id's queued appends, so a group is never seen half written.
type AuditServiceImpl struct {
	repo      ports.AuditRepository
	cache     ports.RollbackMarkerCache
	clock     ports.Clock
	pool      pond.Pool
	markerTTL time.Duration
	log       zerolog.Logger

	// lifecycle guards closed against Submit racing StopAndWait.
	lifecycle sync.RWMutex
	closed    bool

	pendingMu sync.Mutex
	pending   map[string]*pendingGroup
}

// pendingGroup counts queued appends of one correlation id; done closes at zero.
type pendingGroup struct {
	n    int
	done chan struct{}
}

// NewAuditService creates a new AuditServiceImpl.
// If cache is nil, rollback checks always go to the store.
func NewAuditService(
	repo ports.AuditRepository,
	cache ports.RollbackMarkerCache,
	clock ports.Clock,
	opts AuditOptions,
	log zerolog.Logger,
) *AuditServiceImpl {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var poolOpts []pond.Option
	if opts.QueueSize > 0 {
		poolOpts = append(poolOpts, pond.WithQueueSize(opts.QueueSize))
	}
	return &AuditServiceImpl{
		repo:      repo,
		cache:     cache,
		clock:     clock,
		pool:      pond.NewPool(workers, poolOpts...),
		markerTTL: opts.MarkerTTL,
		log:       log,
		pending:   make(map[string]*pendingGroup),
	}
}

// Create records an audit entry asynchronously (fire-and-forget).
func (s *AuditServiceImpl) Create(ctx context.Context, entry domain.AuditEntry) {
	s.prepare(ctx, &entry)
	bg := context.WithoutCancel(ctx)

	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if s.closed {
		s.persist(bg, &entry)
		return
	}

	release := s.track(entry.CorrelationID())
	s.pool.Submit(func() {
		defer release()
		s.persist(bg, &entry)
	})
}

// track registers a queued append for correlationID and returns its release func.
func (s *AuditServiceImpl) track(correlationID string) func() {
	if correlationID == "" {
		return func() {}
	}
	s.pendingMu.Lock()
	g := s.pending[correlationID]
	if g == nil {
		g = &pendingGroup{done: make(chan struct{})}
		s.pending[correlationID] = g
	}
	g.n++
	s.pendingMu.Unlock()

	return func() {
		s.pendingMu.Lock()
		defer s.pendingMu.Unlock()
		g.n--
		if g.n == 0 {
			close(g.done)
			if s.pending[correlationID] == g {
				delete(s.pending, correlationID)
			}
		}
	}
}

// awaitPending blocks until no append of correlationID is queued or running.
func (s *AuditServiceImpl) awaitPending(ctx context.Context, correlationID string) error {
	for {
		s.pendingMu.Lock()
		g := s.pending[correlationID]
		s.pendingMu.Unlock()
		if g == nil {
			return nil
		}
		select {
		case <-g.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *AuditServiceImpl) persist(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("entry_id", entry.ID.String()).
			Str("operation", string(entry.OperationType)).
			Str("correlation_id", entry.CorrelationID()).
			Msg("failed to persist audit entry")
		return
	}
	s.log.Debug().
		Str("entry_id", entry.ID.String()).
		Str("operation", string(entry.OperationType)).
		Str("target_id", entry.TargetID).
		Msg("audit")
}

// CreateSync appends entry and waits for the store.
func (s *AuditServiceImpl) CreateSync(ctx context.Context, entry domain.AuditEntry) (*domain.AuditEntry, error) {
	s.prepare(ctx, &entry)
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}
	return &entry, nil
}

// prepare assigns the id and server timestamp, copies metadata so later caller
// writes cannot race the append, and stamps the active trace.
func (s *AuditServiceImpl) prepare(ctx context.Context, entry *domain.AuditEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.clock.Now()
	}

	meta := make(map[string]any, len(entry.Metadata)+2)
	for k, v := range entry.Metadata {
		meta[k] = v
	}
	entry.Metadata = meta

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.Metadata[domain.MetaTraceID] = sc.TraceID().String()
		entry.Metadata[domain.MetaSpanID] = sc.SpanID().String()
	}
}

// Query returns one page of matching entries, newest first.
func (s *AuditServiceImpl) Query(ctx context.Context, filter domain.AuditFilter) (*ports.AuditPage, error) {
	filter = filter.Normalize()
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.Validation("from must not be after to")
	}

	entries, total, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("query audit: %w", err))
	}
	return &ports.AuditPage{
		Entries:  entries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// FindByCorrelationKey returns every entry of one logical operation, after the
// appends still queued for it have been written.
func (s *AuditServiceImpl) FindByCorrelationKey(ctx context.Context, correlationID string) ([]domain.AuditEntry, error) {
	if correlationID == "" {
		return nil, apperror.Validation("correlation id is required")
	}
	if err := s.awaitPending(ctx, correlationID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("wait for audit appends of %s: %w", correlationID, err))
	}
	entries, err := s.repo.FindByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find correlation %s: %w", correlationID, err))
	}
	return entries, nil
}

// HasRollbackForCorrelation checks the marker cache first, then the store.
func (s *AuditServiceImpl) HasRollbackForCorrelation(ctx context.Context, correlationID string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.IsRolledBack(ctx, correlationID)
		if err != nil {
			s.log.Warn().Err(err).Str("correlation_id", correlationID).Msg("redis rollback check failed, falling through to store")
		}
		if hit {
			return true, nil
		}
	}

	found, err := s.repo.HasRollback(ctx, correlationID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("check rollback marker: %w", err))
	}
	if found {
		s.RememberRollback(ctx, correlationID)
	}
	return found, nil
}

// RememberRollback caches a committed rollback marker (best-effort).
func (s *AuditServiceImpl) RememberRollback(ctx context.Context, correlationID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkRolledBack(ctx, correlationID, s.markerTTL); err != nil {
		s.log.Warn().Err(err).Str("correlation_id", correlationID).Msg("failed to cache rollback marker in redis")
	}
}

// Close drains queued appends. Later Create calls write synchronously.
func (s *AuditServiceImpl) Close() {
	s.lifecycle.Lock()
	if s.closed {
		s.lifecycle.Unlock()
		return
	}
	s.closed = true
	s.lifecycle.Unlock()
	s.pool.StopAndWait()
}
