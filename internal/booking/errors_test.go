package booking

import (
    "errors"
    "fmt"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

func TestError_IsMatchesOnCode(t *testing.T) {
    err := fmt.Errorf("wrapped: %w", insufficientAvailability(7))
    assert.ErrorIs(t, err, ErrInsufficientAvailability)
    assert.NotErrorIs(t, err, ErrPriceMismatch)

    e, ok := AsError(err)
    assert.True(t, ok)
    assert.Equal(t, uint64(7), e.RoomID)
    assert.Equal(t, "[INSUFFICIENT_AVAILABILITY] not enough availability for room 7", e.Error())
}

func TestError_UnwrapsCause(t *testing.T) {
    err := storageError("commit", fmt.Errorf("%w: deadlock", uow.ErrTransient))
    assert.ErrorIs(t, err, ErrTransientStorage)
    assert.ErrorIs(t, err, uow.ErrTransient)

    plain := storageError("commit", errors.New("disk full"))
    _, ok := AsError(plain)
    assert.False(t, ok)
    assert.EqualError(t, plain, "commit: disk full")
}

func TestRetryable(t *testing.T) {
    assert.True(t, Retryable(&Error{Code: CodeTransientStorage}))
    assert.True(t, Retryable(&Error{Code: CodeDuplicateReference}))
    assert.False(t, Retryable(priceMismatch(&pricing.Mismatch{Expected: 1, Provided: 5, Difference: 4})))
    assert.False(t, Retryable(validationError("bad")))
    assert.False(t, Retryable(errors.New("other")))
}
