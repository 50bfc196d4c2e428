package booking

import (
    "errors"
    "fmt"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// Code is the machine readable reason attached to every engine error.
type Code string

const (
    CodeValidation                    Code = "VALIDATION_ERROR"
    CodeInvalidRoomReference          Code = "INVALID_ROOM_REFERENCE"
    CodePriceMismatch                 Code = "PRICE_MISMATCH"
    CodeInsufficientAvailability      Code = "INSUFFICIENT_AVAILABILITY"
    CodeBookingNotFound               Code = "BOOKING_NOT_FOUND"
    CodeInvalidStatus                 Code = "INVALID_STATUS"
    CodeInvalidTransition             Code = "INVALID_TRANSITION"
    CodeAvailabilityReservationFailed Code = "AVAILABILITY_RESERVATION_FAILED"
    CodeTransientStorage              Code = "TRANSIENT_STORAGE_ERROR"
    CodeDuplicateReference            Code = "DUPLICATE_REFERENCE"
)

// Error is returned by the engine for every business rule failure and for
// storage failures that are safe to retry.  RoomID and the price fields are
// set only for the codes they describe.
type Error struct {
    Code       Code
    Message    string
    RoomID     uint64
    Expected   pricing.Cents
    Provided   pricing.Cents
    Difference pricing.Cents
    Err        error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
    }
    return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is regardless of the detail fields.
func (e *Error) Is(target error) bool {
    t, ok := target.(*Error)
    return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
    ErrValidation                    = &Error{Code: CodeValidation}
    ErrInvalidRoomReference          = &Error{Code: CodeInvalidRoomReference}
    ErrPriceMismatch                 = &Error{Code: CodePriceMismatch}
    ErrInsufficientAvailability      = &Error{Code: CodeInsufficientAvailability}
    ErrBookingNotFound               = &Error{Code: CodeBookingNotFound}
    ErrInvalidStatus                 = &Error{Code: CodeInvalidStatus}
    ErrInvalidTransition             = &Error{Code: CodeInvalidTransition}
    ErrAvailabilityReservationFailed = &Error{Code: CodeAvailabilityReservationFailed}
    ErrTransientStorage              = &Error{Code: CodeTransientStorage}
    ErrDuplicateReference            = &Error{Code: CodeDuplicateReference}
)

func validationError(format string, args ...any) *Error {
    return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func invalidRoomReference(roomID uint64) *Error {
    return &Error{
        Code:    CodeInvalidRoomReference,
        Message: fmt.Sprintf("invalid room id: %d", roomID),
        RoomID:  roomID,
    }
}

func priceMismatch(m *pricing.Mismatch) *Error {
    return &Error{
        Code:       CodePriceMismatch,
        Message:    fmt.Sprintf("price mismatch: expected %s, provided %s", m.Expected, m.Provided),
        Expected:   m.Expected,
        Provided:   m.Provided,
        Difference: m.Difference,
    }
}

func insufficientAvailability(roomID uint64) *Error {
    return &Error{
        Code:    CodeInsufficientAvailability,
        Message: fmt.Sprintf("not enough availability for room %d", roomID),
        RoomID:  roomID,
    }
}

func availabilityReservationFailed(roomID uint64) *Error {
    return &Error{
        Code:    CodeAvailabilityReservationFailed,
        Message: fmt.Sprintf("not enough room availability to revert status (room %d)", roomID),
        RoomID:  roomID,
    }
}

// Retryable reports whether the whole operation may be attempted again
// without changing the input.
func Retryable(err error) bool {
    return errors.Is(err, ErrTransientStorage) || errors.Is(err, ErrDuplicateReference)
}

// AsError extracts the engine error from err's chain.
func AsError(err error) (*Error, bool) {
    var e *Error
    if errors.As(err, &e) {
        return e, true
    }
    return nil, false
}
