package pgsql

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailops/ledgercore/internal/apperrors"
)

func TestStoreErrorClassifiesDeadlineAsUnavailable(t *testing.T) {
	err := storeError("failed to query accounts", context.DeadlineExceeded)

	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 503, appErr.Code)
}

func TestStoreErrorClassifiesNetworkFailureAsUnavailable(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	err := storeError("failed to begin transaction", cause)

	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestStoreErrorKeepsOtherFailuresInternal(t *testing.T) {
	err := storeError("failed to scan account row", errors.New("unexpected column count"))

	assert.NotErrorIs(t, err, apperrors.ErrStoreUnavailable)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
}
