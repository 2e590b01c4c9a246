package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError for callers that branch on failure type.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindConflict           Kind = "CONFLICT"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInsufficientFunds  Kind = "INSUFFICIENT_FUNDS"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	KindAlreadyRolledBack  Kind = "ALREADY_ROLLED_BACK"
	KindInternal           Kind = "INTERNAL"
)

// AppError is a structured ledger error. Code is stable; Message is safe to show.
type AppError struct {
	Code    string `json:"error_code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound(userID string) *AppError {
	return New("ACC_001", KindNotFound, fmt.Sprintf("account %s not found", userID))
}

func ErrAccountNotActive(userID, status string) *AppError {
	return New("ACC_002", KindForbidden, fmt.Sprintf("account %s is %s", userID, status))
}

func ErrInvalidStatus(status string) *AppError {
	return New("ACC_003", KindInvalidInput, fmt.Sprintf("invalid account status %q", status))
}

func ErrCorruptedAccount(userID string, fields []string) *AppError {
	return New("ACC_004", KindInvariantViolation,
		fmt.Sprintf("account %s has invalid stored fields %v", userID, fields))
}

func ErrInvalidUserID() *AppError {
	return New("ACC_005", KindInvalidInput, "user id is required")
}

func ErrAccountConflict(userID string) *AppError {
	return New("ACC_006", KindConflict, fmt.Sprintf("account %s changed concurrently, retries exhausted", userID))
}

// ---- Currency (CUR) ----

func ErrInvalidCurrency(currencyID string) *AppError {
	return New("CUR_001", KindInvalidInput, fmt.Sprintf("invalid currency id %q", currencyID))
}

func ErrUnknownCurrency(currencyID string) *AppError {
	return New("CUR_002", KindInvalidInput, fmt.Sprintf("currency %q is not registered", currencyID))
}

func ErrInvalidAmount() *AppError {
	return New("CUR_003", KindInvalidInput, "amount must be positive")
}

func ErrSelfTransfer() *AppError {
	return New("CUR_004", KindInvalidInput, "sender and recipient must differ")
}

func ErrInsufficientFunds() *AppError {
	return New("CUR_005", KindInsufficientFunds, "insufficient balance")
}

func ErrBalanceConflict(currencyID string) *AppError {
	return New("CUR_006", KindConflict, fmt.Sprintf("balance for %s changed concurrently, retries exhausted", currencyID))
}

func ErrPermissionDenied() *AppError {
	return New("CUR_007", KindForbidden, "actor is not permitted in this guild")
}

func ErrZeroDelta() *AppError {
	return New("CUR_008", KindInvalidInput, "delta must be non-zero")
}

// ---- Treasury (TRS) ----

func ErrInvalidSector(sector string) *AppError {
	return New("TRS_001", KindInvalidInput, fmt.Sprintf("invalid sector %q", sector))
}

func ErrInsufficientSectorFunds(sector string) *AppError {
	return New("TRS_002", KindInsufficientFunds, fmt.Sprintf("sector %s has insufficient funds", sector))
}

func ErrTreasuryNotFound(guildID string) *AppError {
	return New("TRS_003", KindNotFound, fmt.Sprintf("treasury for guild %s not found", guildID))
}

func ErrTreasuryConflict(guildID string) *AppError {
	return New("TRS_004", KindConflict, fmt.Sprintf("treasury for guild %s changed concurrently", guildID))
}

func ErrInvalidGuildID() *AppError {
	return New("TRS_005", KindInvalidInput, "guild id is required")
}

func ErrInvalidTaxConfig(reason string) *AppError {
	return New("TRS_006", KindInvalidInput, "invalid tax configuration: "+reason)
}

// ---- Items (ITM) ----

func ErrInvalidItem(itemID string) *AppError {
	return New("ITM_001", KindInvalidInput, fmt.Sprintf("invalid item id %q", itemID))
}

func ErrInsufficientItems(itemID string) *AppError {
	return New("ITM_002", KindInsufficientStock, fmt.Sprintf("not enough %s in inventory", itemID))
}

func ErrOutOfStock(itemID string) *AppError {
	return New("ITM_003", KindInsufficientStock, fmt.Sprintf("%s is out of stock", itemID))
}

// ---- Rollback (RBK) ----

func ErrAlreadyRolledBack(correlationID string) *AppError {
	return New("RBK_001", KindAlreadyRolledBack, fmt.Sprintf("correlation %s was already rolled back", correlationID))
}

func ErrNothingToRollback(correlationID string) *AppError {
	return New("RBK_002", KindNotFound, fmt.Sprintf("no audit entries for correlation %s", correlationID))
}

func ErrRollbackRefused(reason string) *AppError {
	return New("RBK_003", KindInvalidInput, "rollback refused: "+reason)
}

func ErrRollbackForbidden(reason string) *AppError {
	return New("RBK_004", KindForbidden, "rollback refused: "+reason)
}

func ErrRollbackRecordFailed(correlationID string, err error) *AppError {
	return Wrap("RBK_005", KindInternal,
		fmt.Sprintf("rollback of %s applied but its audit record failed", correlationID), err)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an infrastructure error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", KindInternal, "Internal ledger error", err)
}

// Validation returns a generic invalid-input error.
func Validation(message string) *AppError {
	return New("SYS_002", KindInvalidInput, message)
}
