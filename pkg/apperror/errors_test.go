package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("CUR_005", KindInsufficientFunds, "insufficient balance"),
			expected: "[CUR_005] insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", KindInternal, "DB error", fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", KindInternal, "wrapped", inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("CUR_003", KindInvalidInput, "test").Unwrap())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("transfer: %w", ErrInsufficientFunds())

	assert.Equal(t, KindInsufficientFunds, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.True(t, IsKind(wrapped, KindInsufficientFunds))
	assert.False(t, IsKind(nil, KindInsufficientFunds))
	assert.False(t, IsKind(wrapped, KindConflict))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code string
		kind Kind
	}{
		{"AccountNotFound", ErrAccountNotFound("u1"), "ACC_001", KindNotFound},
		{"AccountNotActive", ErrAccountNotActive("u1", "banned"), "ACC_002", KindForbidden},
		{"InvalidStatus", ErrInvalidStatus("gone"), "ACC_003", KindInvalidInput},
		{"CorruptedAccount", ErrCorruptedAccount("u1", []string{"status"}), "ACC_004", KindInvariantViolation},
		{"InvalidCurrency", ErrInvalidCurrency("$where"), "CUR_001", KindInvalidInput},
		{"UnknownCurrency", ErrUnknownCurrency("doubloons"), "CUR_002", KindInvalidInput},
		{"InvalidAmount", ErrInvalidAmount(), "CUR_003", KindInvalidInput},
		{"SelfTransfer", ErrSelfTransfer(), "CUR_004", KindInvalidInput},
		{"InsufficientFunds", ErrInsufficientFunds(), "CUR_005", KindInsufficientFunds},
		{"BalanceConflict", ErrBalanceConflict("coins"), "CUR_006", KindConflict},
		{"PermissionDenied", ErrPermissionDenied(), "CUR_007", KindForbidden},
		{"InsufficientSectorFunds", ErrInsufficientSectorFunds("trade"), "TRS_002", KindInsufficientFunds},
		{"OutOfStock", ErrOutOfStock("iron_ore"), "ITM_003", KindInsufficientStock},
		{"AlreadyRolledBack", ErrAlreadyRolledBack("c1"), "RBK_001", KindAlreadyRolledBack},
		{"NothingToRollback", ErrNothingToRollback("c1"), "RBK_002", KindNotFound},
		{"RollbackForbidden", ErrRollbackForbidden("cross guild"), "RBK_004", KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}

func TestRollbackRecordFailed_WrapsCause(t *testing.T) {
	cause := errors.New("audit store down")
	err := ErrRollbackRecordFailed("c1", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Message, "c1")
}
