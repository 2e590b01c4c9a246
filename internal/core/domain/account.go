package domain

import (
	"time"
)

// AccountStatus is the moderation state of a user account.
type AccountStatus string

const (
	AccountStatusOK      AccountStatus = "ok"
	AccountStatusBlocked AccountStatus = "blocked"
	AccountStatusBanned  AccountStatus = "banned"
)

// Valid reports whether s is one of the known statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusOK, AccountStatusBlocked, AccountStatusBanned:
		return true
	}
	return false
}

// Account is a user's ledger record. Version increments by one on every accepted
// status mutation and is the unit of optimistic concurrency.
type Account struct {
	UserID         string        `json:"user_id"`
	Status         AccountStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	Version        int64         `json:"version"`
}

// IsActive returns true when currency and item operations may touch the account.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusOK
}

// NewAccount builds the default record written on first Ensure.
func NewAccount(userID string, now time.Time) *Account {
	return &Account{
		UserID:         userID,
		Status:         AccountStatusOK,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
		Version:        0,
	}
}

// Account field names reported by RepairAccount.
const (
	FieldStatus         = "status"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldLastActivityAt = "lastActivityAt"
	FieldVersion        = "version"
)

// StoredAccount is an account exactly as read from the store, before validation.
// Nil pointers are missing fields. Adapters that can observe a wrongly typed value
// (document stores) leave that field nil as well.
type StoredAccount struct {
	UserID         string
	Status         *string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	LastActivityAt *time.Time
	Version        *int64
}

// InvalidFields lists the fields that would be defaulted by RepairAccount.
func (s *StoredAccount) InvalidFields() []string {
	var fields []string
	if s.Status == nil || !AccountStatus(*s.Status).Valid() {
		fields = append(fields, FieldStatus)
	}
	if s.CreatedAt == nil || s.CreatedAt.IsZero() {
		fields = append(fields, FieldCreatedAt)
	}
	if s.UpdatedAt == nil || s.UpdatedAt.IsZero() {
		fields = append(fields, FieldUpdatedAt)
	}
	if s.LastActivityAt == nil || s.LastActivityAt.IsZero() {
		fields = append(fields, FieldLastActivityAt)
	}
	if s.Version == nil || *s.Version < 0 {
		fields = append(fields, FieldVersion)
	}
	return fields
}

// Valid returns the account when no field needs repair.
func (s *StoredAccount) Valid() (*Account, bool) {
	if len(s.InvalidFields()) > 0 {
		return nil, false
	}
	return &Account{
		UserID:         s.UserID,
		Status:         AccountStatus(*s.Status),
		CreatedAt:      *s.CreatedAt,
		UpdatedAt:      *s.UpdatedAt,
		LastActivityAt: *s.LastActivityAt,
		Version:        *s.Version,
	}, true
}

// RepairAccount rebuilds an account from a possibly corrupted stored record.
// Valid fields are preserved and only documented defaults are applied: status ok,
// createdAt now, updatedAt createdAt, lastActivityAt createdAt, version 0.
// The returned list names every defaulted field; it is empty when nothing changed.
func RepairAccount(s *StoredAccount, now time.Time) (*Account, []string) {
	defaulted := s.InvalidFields()
	bad := make(map[string]bool, len(defaulted))
	for _, f := range defaulted {
		bad[f] = true
	}

	acc := &Account{UserID: s.UserID}

	if bad[FieldStatus] {
		acc.Status = AccountStatusOK
	} else {
		acc.Status = AccountStatus(*s.Status)
	}

	if bad[FieldCreatedAt] {
		acc.CreatedAt = now
	} else {
		acc.CreatedAt = *s.CreatedAt
	}

	if bad[FieldUpdatedAt] {
		acc.UpdatedAt = acc.CreatedAt
	} else {
		acc.UpdatedAt = *s.UpdatedAt
	}

	if bad[FieldLastActivityAt] {
		acc.LastActivityAt = acc.CreatedAt
	} else {
		acc.LastActivityAt = *s.LastActivityAt
	}

	if bad[FieldVersion] {
		acc.Version = 0
	} else {
		acc.Version = *s.Version
	}

	return acc, defaulted
}

// StoredFromAccount converts a valid account back to its stored shape.
func StoredFromAccount(a *Account) *StoredAccount {
	status := string(a.Status)
	createdAt, updatedAt, lastActivityAt := a.CreatedAt, a.UpdatedAt, a.LastActivityAt
	version := a.Version
	return &StoredAccount{
		UserID:         a.UserID,
		Status:         &status,
		CreatedAt:      &createdAt,
		UpdatedAt:      &updatedAt,
		LastActivityAt: &lastActivityAt,
		Version:        &version,
	}
}
