package service

import (
	"context"
	"fmt"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog"
)

// systemActor is the actor recorded for mutations the ledger performs on its own.
const systemActor = "system"

// repairAttempts bounds how often repair re-reads a record that changed under it.
const repairAttempts = 5

// AccountOptions sizes the pool that stamps activity.
type AccountOptions struct {
	TouchWorkers   int
	TouchQueueSize int
}

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	repo    ports.AccountRepository
	audit   ports.AuditService
	clock   ports.Clock
	touches pond.Pool
	log     zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	repo ports.AccountRepository,
	audit ports.AuditService,
	clock ports.Clock,
	opts AccountOptions,
	log zerolog.Logger,
) *AccountServiceImpl {
	workers := opts.TouchWorkers
	if workers < 1 {
		workers = 1
	}
	queue := opts.TouchQueueSize
	if queue < 1 {
		queue = 256
	}
	return &AccountServiceImpl{
		repo:    repo,
		audit:   audit,
		clock:   clock,
		touches: pond.NewPool(workers, pond.WithQueueSize(queue)),
		log:     log,
	}
}

// Close waits for queued activity stamps. Later stamps are dropped.
func (s *AccountServiceImpl) Close() {
	s.touches.StopAndWait()
}

// Ensure returns the account, creating it on first use. A concurrent creator is not
// an error: the loser re-reads and reports IsNew=false. Corrupted records are
// repaired on the way out.
func (s *AccountServiceImpl) Ensure(ctx context.Context, userID string) (*ports.EnsureResult, error) {
	if userID == "" {
		return nil, apperror.ErrInvalidUserID()
	}

	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}

	if stored == nil {
		acc := domain.NewAccount(userID, s.clock.Now())
		inserted, err := s.repo.Insert(ctx, acc)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("insert account: %w", err))
		}
		if inserted {
			s.log.Info().Str("user_id", userID).Msg("account created")
			return &ports.EnsureResult{Account: acc, IsNew: true}, nil
		}

		// Lost the race: another writer created it between Get and Insert.
		stored, err = s.repo.Get(ctx, userID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("re-read account: %w", err))
		}
		if stored == nil {
			return nil, apperror.InternalError(fmt.Errorf("account %s missing after conflicting insert", userID))
		}
	}

	if acc, ok := stored.Valid(); ok {
		return &ports.EnsureResult{Account: acc}, nil
	}

	acc, defaulted, err := s.persistRepair(ctx, stored)
	if err != nil {
		return nil, err
	}
	return &ports.EnsureResult{Account: acc, Repaired: len(defaulted) > 0, DefaultedFields: defaulted}, nil
}

// FindByID is a pure read. A structurally invalid record is reported, not repaired.
func (s *AccountServiceImpl) FindByID(ctx context.Context, userID string) (*domain.Account, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if stored == nil {
		return nil, apperror.ErrAccountNotFound(userID)
	}
	acc, ok := stored.Valid()
	if !ok {
		return nil, apperror.ErrCorruptedAccount(userID, stored.InvalidFields())
	}
	return acc, nil
}

// UpdateStatus applies an optimistic status change. A stale ExpectedVersion is not an
// error: Updated=false is returned with the current record so the caller can retry.
func (s *AccountServiceImpl) UpdateStatus(ctx context.Context, req ports.StatusUpdateRequest) (*ports.StatusUpdate, error) {
	if !req.Status.Valid() {
		return nil, apperror.ErrInvalidStatus(string(req.Status))
	}
	if req.ExpectedVersion < 0 {
		return nil, apperror.Validation("expected version must not be negative")
	}

	ensured, err := s.Ensure(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	previous := ensured.Account.Status

	updated, err := s.repo.UpdateStatus(ctx, req.UserID, req.Status, req.ExpectedVersion, s.clock.Now())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}

	current, err := s.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !updated {
		s.log.Debug().
			Str("user_id", req.UserID).
			Int64("expected_version", req.ExpectedVersion).
			Int64("current_version", current.Version).
			Msg("status update skipped on version mismatch")
		return &ports.StatusUpdate{Updated: false, Account: current}, nil
	}

	s.audit.Create(ctx, domain.AuditEntry{
		OperationType: domain.OpAccountStatus,
		ActorID:       req.ActorID,
		TargetID:      req.UserID,
		GuildID:       req.GuildID,
		Source:        "account",
		Reason:        req.Reason,
		Metadata: map[string]any{
			"fromStatus": string(previous),
			"toStatus":   string(req.Status),
			"version":    current.Version,
		},
	})

	s.log.Info().
		Str("user_id", req.UserID).
		Str("status", string(req.Status)).
		Int64("version", current.Version).
		Msg("account status updated")

	return &ports.StatusUpdate{Updated: true, Account: current}, nil
}

// TouchActivity stamps lastActivityAt on the touch pool. A full queue drops the
// stamp; failures are logged only.
func (s *AccountServiceImpl) TouchActivity(ctx context.Context, userID string) {
	at := s.clock.Now()
	bg := context.WithoutCancel(ctx)
	_, ok := s.touches.TrySubmit(func() {
		if err := s.repo.TouchActivity(bg, userID, at); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to touch account activity")
		}
	})
	if !ok {
		s.log.Debug().Str("user_id", userID).Msg("activity stamp dropped")
	}
}

// Repair validates the stored record and rewrites it when any field needs a default.
func (s *AccountServiceImpl) Repair(ctx context.Context, userID string) (*ports.RepairResult, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if stored == nil {
		return nil, apperror.ErrAccountNotFound(userID)
	}
	if acc, ok := stored.Valid(); ok {
		return &ports.RepairResult{Account: acc}, nil
	}

	acc, defaulted, err := s.persistRepair(ctx, stored)
	if err != nil {
		return nil, err
	}
	return &ports.RepairResult{Account: acc, Repaired: len(defaulted) > 0, DefaultedFields: defaulted}, nil
}

// RequireActive ensures the account and gates on its status.
func (s *AccountServiceImpl) RequireActive(ctx context.Context, userID string) (*domain.Account, error) {
	res, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !res.Account.IsActive() {
		return nil, apperror.ErrAccountNotActive(userID, string(res.Account.Status))
	}
	return res.Account, nil
}

// persistRepair writes the repaired record only over the version it was derived
// from. When another writer got there first the record is re-read and re-validated,
// so an accepted status change is never replaced. A record found valid on re-read
// is returned with no defaulted fields.
func (s *AccountServiceImpl) persistRepair(ctx context.Context, stored *domain.StoredAccount) (*domain.Account, []string, error) {
	userID := stored.UserID
	for attempt := 0; attempt < repairAttempts; attempt++ {
		if attempt > 0 {
			var err error
			stored, err = s.repo.Get(ctx, userID)
			if err != nil {
				return nil, nil, apperror.InternalError(fmt.Errorf("re-read account: %w", err))
			}
			if stored == nil {
				return nil, nil, apperror.ErrAccountNotFound(userID)
			}
			if acc, ok := stored.Valid(); ok {
				return acc, nil, nil
			}
		}

		acc, defaulted := domain.RepairAccount(stored, s.clock.Now())
		acc.Version++

		replaced, err := s.repo.ReplaceIfVersion(ctx, acc, stored.Version)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("persist repaired account: %w", err))
		}
		if !replaced {
			s.log.Debug().
				Str("user_id", acc.UserID).
				Int("attempt", attempt+1).
				Msg("account changed during repair, re-reading")
			continue
		}
		s.recordRepair(ctx, acc, defaulted)
		return acc, defaulted, nil
	}
	return nil, nil, apperror.ErrAccountConflict(userID)
}

func (s *AccountServiceImpl) recordRepair(ctx context.Context, acc *domain.Account, defaulted []string) {

	s.audit.Create(ctx, domain.AuditEntry{
		OperationType: domain.OpAccountRepair,
		ActorID:       systemActor,
		TargetID:      acc.UserID,
		Source:        "account",
		Reason:        "stored record failed validation",
		Metadata: map[string]any{
			domain.MetaDefaulted: defaulted,
			"version":            acc.Version,
		},
	})

	s.log.Warn().
		Str("user_id", acc.UserID).
		Strs("defaulted_fields", defaulted).
		Msg("account repaired")
}
