package booking

import (
    "context"
    "errors"
    "fmt"
    "sort"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// SetStatus moves a booking to the given status and reconciles room
// inventory according to the transition table.  Status and inventory
// change together or not at all.  Setting the current status again
// succeeds without touching anything.
func (e *Engine) SetStatus(ctx context.Context, bookingID uint64, status string) error {
    var from, to model.BookingStatus
    err := e.withRetry(ctx, "set_status", func(ctx context.Context) error {
        var err error
        from, to, err = e.setStatusOnce(ctx, bookingID, status)
        return err
    })
    if err != nil {
        return err
    }

    log := e.log.WithFields(logrus.Fields{"booking_id": bookingID, "from": from, "to": to})
    if from == to {
        log.Debug("booking status unchanged")
        return nil
    }
    log.Info("booking status changed")

    if to == model.StatusConfirmed {
        d, err := e.bookings.GetByID(ctx, bookingID)
        if err != nil {
            log.WithError(err).Warn("booking confirmation not sent")
            return nil
        }
        e.notify(ctx, d)
    }
    return nil
}

func (e *Engine) setStatusOnce(ctx context.Context, bookingID uint64, raw string) (model.BookingStatus, model.BookingStatus, error) {
    u, err := e.uow.Begin(ctx, uow.TxOptions{})
    if err != nil {
        return "", "", storageError("begin", err)
    }
    committed := false
    defer e.rollback(u, &committed)

    current, err := u.Bookings().LockStatus(ctx, bookingID)
    if err != nil {
        if errors.Is(err, uow.ErrNotFound) {
            return "", "", &Error{Code: CodeBookingNotFound, Message: "booking not found", Err: err}
        }
        return "", "", storageError("lock booking", err)
    }

    next, err := model.ParseBookingStatus(raw)
    if err != nil {
        return "", "", &Error{Code: CodeInvalidStatus, Message: fmt.Sprintf("invalid status %q", raw)}
    }

    delta, ok := Transition(current, next)
    if !ok {
        return "", "", &Error{
            Code:    CodeInvalidTransition,
            Message: fmt.Sprintf("cannot change booking from %s to %s", current, next),
        }
    }
    if current == next {
        return current, next, nil
    }

    if delta != DeltaNone {
        lines, err := u.Bookings().Lines(ctx, bookingID)
        if err != nil {
            return "", "", storageError("load booking lines", err)
        }
        sort.Slice(lines, func(i, j int) bool { return lines[i].RoomID < lines[j].RoomID })
        if err := e.applyDelta(ctx, u, delta, lines); err != nil {
            return "", "", err
        }
    }

    if err := u.Bookings().UpdateStatus(ctx, bookingID, next); err != nil {
        return "", "", storageError("update status", err)
    }
    if err := u.Commit(ctx); err != nil {
        return "", "", storageError("commit", err)
    }
    committed = true
    return current, next, nil
}

func (e *Engine) applyDelta(ctx context.Context, u uow.UnitOfWork, delta Delta, lines []model.BookingRoomLine) error {
    rooms := u.Rooms()
    for _, l := range lines {
        switch delta {
        case DeltaRelease:
            if err := rooms.IncrementAvailable(ctx, l.RoomID, l.Quantity); err != nil {
                return storageError("release room", err)
            }
        case DeltaReserve:
            ok, err := rooms.DecrementAvailable(ctx, l.RoomID, l.Quantity)
            if err != nil {
                return storageError("reserve room", err)
            }
            if !ok {
                return availabilityReservationFailed(l.RoomID)
            }
        }
    }
    return nil
}
