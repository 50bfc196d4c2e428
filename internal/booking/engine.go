// Package booking is the booking transaction engine.  It creates bookings
// against locked room inventory and moves bookings between statuses while
// keeping available_rooms reconciled.  Every mutation happens inside one
// unit of work; the row locks of the storage engine are the only mutual
// exclusion, so any number of engine instances may share a database.
package booking

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// Notifier sends the booking confirmation message.  It is called after
// commit; a failure is logged and never affects the booking.
type Notifier interface {
    SendBookingConfirmation(ctx context.Context, b *model.BookingDetail) error
}

// RoomCatalog is the unlocked room reader.
type RoomCatalog interface {
    ListAll(ctx context.Context) ([]model.Room, error)
    GetByIDs(ctx context.Context, ids []uint64) ([]model.Room, error)
}

// BookingReader is the unlocked ledger reader.
type BookingReader interface {
    GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error)
    List(ctx context.Context, f model.BookingFilter) ([]model.BookingDetail, int, error)
}

// Config tunes the engine.
type Config struct {
    // InitialStatus is the status new bookings are created with.  It
    // must be pending or confirmed.
    InitialStatus model.BookingStatus
    // MaxAttempts bounds how often a retryable failure re-runs the
    // whole operation.
    MaxAttempts int
    // TxTimeout bounds a single attempt, lock waits included.
    TxTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
    return Config{
        InitialStatus: model.StatusConfirmed,
        MaxAttempts:   3,
        TxTimeout:     10 * time.Second,
    }
}

// notifyTimeout bounds the best-effort confirmation call.
const notifyTimeout = 5 * time.Second

// Engine is safe for concurrent use.
type Engine struct {
    uow      uow.Factory
    rooms    RoomCatalog
    bookings BookingReader
    refs     ReferenceGenerator
    notifier Notifier
    cfg      Config
    log      logrus.FieldLogger
}

// Option customises an Engine.
type Option func(*Engine)

// WithNotifier sets the confirmation sender.
func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

// WithReferences replaces the booking reference generator.
func WithReferences(g ReferenceGenerator) Option { return func(e *Engine) { e.refs = g } }

// NewEngine wires an engine.  Zero config fields fall back to
// DefaultConfig; an InitialStatus other than pending or confirmed is an
// error.
func NewEngine(f uow.Factory, rooms RoomCatalog, bookings BookingReader, cfg Config, log logrus.FieldLogger, opts ...Option) (*Engine, error) {
    def := DefaultConfig()
    if cfg.InitialStatus == "" {
        cfg.InitialStatus = def.InitialStatus
    }
    if !cfg.InitialStatus.IsActive() {
        return nil, fmt.Errorf("booking: initial status must be pending or confirmed, got %q", cfg.InitialStatus)
    }
    if cfg.MaxAttempts < 1 {
        cfg.MaxAttempts = def.MaxAttempts
    }
    if cfg.TxTimeout <= 0 {
        cfg.TxTimeout = def.TxTimeout
    }
    if log == nil {
        log = logrus.StandardLogger()
    }
    e := &Engine{
        uow:      f,
        rooms:    rooms,
        bookings: bookings,
        refs:     UUIDReferences,
        cfg:      cfg,
        log:      log.WithField("component", "booking"),
    }
    for _, o := range opts {
        o(e)
    }
    return e, nil
}

// withRetry runs fn until it succeeds, fails with a non-retryable error,
// or MaxAttempts is reached.  Each attempt gets its own deadline.
func (e *Engine) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
    var err error
    for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
        actx, cancel := context.WithTimeout(ctx, e.cfg.TxTimeout)
        err = fn(actx)
        cancel()
        if err == nil || !Retryable(err) {
            return err
        }
        if attempt == e.cfg.MaxAttempts {
            break
        }
        e.log.WithFields(logrus.Fields{"op": op, "attempt": attempt}).WithError(err).Warn("retrying")
        select {
        case <-ctx.Done():
            return err
        case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
        }
    }
    return err
}

// storageError classifies an error from the unit of work.  Transient
// failures become TransientStorageError; everything else is wrapped as an
// internal failure of op.
func storageError(op string, err error) error {
    if errors.Is(err, uow.ErrTransient) {
        return &Error{Code: CodeTransientStorage, Message: op + " failed", Err: err}
    }
    return fmt.Errorf("%s: %w", op, err)
}

// rollback closes u unless it was committed.  Meant to be deferred.
func (e *Engine) rollback(u uow.UnitOfWork, committed *bool) {
    if *committed {
        return
    }
    if err := u.Rollback(context.Background()); err != nil {
        e.log.WithError(err).Error("rollback failed")
    }
}

// notify calls the notifier outside of the caller's cancellation.
func (e *Engine) notify(ctx context.Context, b *model.BookingDetail) {
    if e.notifier == nil || b == nil {
        return
    }
    nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
    defer cancel()
    if err := e.notifier.SendBookingConfirmation(nctx, b); err != nil {
        e.log.WithFields(logrus.Fields{
            "booking_id": b.ID,
            "reference":  b.Reference,
        }).WithError(err).Warn("booking confirmation not sent")
    }
}
