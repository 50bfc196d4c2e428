package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// UnitOfWorkFactory opens MySQL transactions and hands out repositories
// bound to them.
type UnitOfWorkFactory struct {
    db       *sql.DB
    rooms    *RoomRepo
    bookings *BookingRepo
}

// NewUnitOfWorkFactory builds a factory over the given repositories.  Both
// repositories must share the same *sql.DB.
func NewUnitOfWorkFactory(rooms *RoomRepo, bookings *BookingRepo) *UnitOfWorkFactory {
    return &UnitOfWorkFactory{db: rooms.DB(), rooms: rooms, bookings: bookings}
}

// Begin starts a transaction.  The row locks taken through the returned
// unit of work are held until Commit or Rollback.
func (f *UnitOfWorkFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
    tx, err := f.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: opts.ReadOnly})
    if err != nil {
        return nil, mapErr(err)
    }
    return &sqlUnitOfWork{tx: tx, rooms: f.rooms, bookings: f.bookings}, nil
}

type sqlUnitOfWork struct {
    tx       *sql.Tx
    rooms    *RoomRepo
    bookings *BookingRepo
}

func (u *sqlUnitOfWork) Rooms() uow.RoomLocker       { return txRooms{u} }
func (u *sqlUnitOfWork) Bookings() uow.BookingWriter { return txBookings{u} }

func (u *sqlUnitOfWork) Commit(ctx context.Context) error {
    return mapErr(u.tx.Commit())
}

// Rollback aborts the transaction.  Calling it after Commit returns nil.
func (u *sqlUnitOfWork) Rollback(ctx context.Context) error {
    if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
        return mapErr(err)
    }
    return nil
}

type txRooms struct{ u *sqlUnitOfWork }

func (t txRooms) LockByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
    return t.u.rooms.LockByIDsTx(ctx, t.u.tx, ids)
}

func (t txRooms) DecrementAvailable(ctx context.Context, roomID uint64, qty uint32) (bool, error) {
    return t.u.rooms.DecrementAvailableTx(ctx, t.u.tx, roomID, qty)
}

func (t txRooms) IncrementAvailable(ctx context.Context, roomID uint64, qty uint32) error {
    return t.u.rooms.IncrementAvailableTx(ctx, t.u.tx, roomID, qty)
}

type txBookings struct{ u *sqlUnitOfWork }

func (t txBookings) Create(ctx context.Context, b *model.Booking) error {
    return t.u.bookings.CreateTx(ctx, t.u.tx, b)
}

func (t txBookings) CreateLines(ctx context.Context, lines []model.BookingRoomLine) error {
    return t.u.bookings.CreateLinesBulkTx(ctx, t.u.tx, lines)
}

func (t txBookings) LockStatus(ctx context.Context, bookingID uint64) (model.BookingStatus, error) {
    return t.u.bookings.LockStatusTx(ctx, t.u.tx, bookingID)
}

func (t txBookings) Lines(ctx context.Context, bookingID uint64) ([]model.BookingRoomLine, error) {
    return t.u.bookings.LinesTx(ctx, t.u.tx, bookingID)
}

func (t txBookings) UpdateStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
    return t.u.bookings.UpdateStatusTx(ctx, t.u.tx, bookingID, status)
}
