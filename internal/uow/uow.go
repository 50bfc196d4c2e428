// Package uow declares the transactional boundary the booking engine works
// through.  A UnitOfWork wraps one storage transaction; the repositories it
// hands out operate inside that transaction only.  The MySQL implementation
// lives in the repository package.
package uow

import (
    "context"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

var (
    // ErrNotFound is returned when a locked read finds no row.
    ErrNotFound = errors.New("not found")
    // ErrDuplicateKey is returned when an insert violates a unique key.
    ErrDuplicateKey = errors.New("duplicate key")
    // ErrTransient marks failures that are safe to retry as a whole:
    // deadlocks, lock wait timeouts and dropped connections.
    ErrTransient = errors.New("transient storage failure")
)

// RoomLocker is the inventory side of a unit of work.
type RoomLocker interface {
    // LockByIDs takes an exclusive lock on every existing row in ids, in
    // ascending id order, and returns the locked rows.  Ids without a row
    // are simply absent from the result.
    LockByIDs(ctx context.Context, ids []uint64) ([]model.Room, error)
    // DecrementAvailable subtracts qty when at least qty units remain.
    // It reports false when the row did not satisfy the condition.
    DecrementAvailable(ctx context.Context, roomID uint64, qty uint32) (bool, error)
    IncrementAvailable(ctx context.Context, roomID uint64, qty uint32) error
}

// BookingWriter is the ledger side of a unit of work.
type BookingWriter interface {
    // Create inserts b and sets its ID.  A reference collision is
    // reported as ErrDuplicateKey.
    Create(ctx context.Context, b *model.Booking) error
    CreateLines(ctx context.Context, lines []model.BookingRoomLine) error
    // LockStatus locks the booking row and returns its status, or
    // ErrNotFound.
    LockStatus(ctx context.Context, bookingID uint64) (model.BookingStatus, error)
    Lines(ctx context.Context, bookingID uint64) ([]model.BookingRoomLine, error)
    UpdateStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error
}

// UnitOfWork coordinates repositories inside a transaction boundary.
// Rollback after Commit is a no-op so callers may always defer it.
type UnitOfWork interface {
    Rooms() RoomLocker
    Bookings() BookingWriter

    Commit(ctx context.Context) error
    Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
    Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
    ReadOnly bool
}
