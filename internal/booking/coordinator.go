package booking

import (
    "context"
    "errors"
    "sort"
    "strings"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// RoomLine is one (room, quantity) pairing of a request.
type RoomLine struct {
    RoomID   uint64
    Quantity uint32
}

// Request is the input of CreateBooking.  Total is the amount the client
// computed; it is only compared, never stored.
type Request struct {
    Guest           model.Guest
    CheckIn         time.Time
    CheckOut        time.Time
    SpecialRequests *string
    PaymentMethod   model.PaymentMethod
    Rooms           []RoomLine
    Total           pricing.Cents
}

// Result summarises a created booking.
type Result struct {
    BookingID       uint64
    Reference       string
    Status          model.BookingStatus
    ProvidedTotal   pricing.Cents
    CalculatedTotal pricing.Cents
}

// MaxLineQuantity caps the rooms of one type in a single booking, after
// lines for the same room are merged.
const MaxLineQuantity = 1000

// validate checks the request shape and returns the room lines merged by
// room id and sorted ascending.
func (r Request) validate() ([]pricing.Line, error) {
    g := r.Guest
    switch {
    case strings.TrimSpace(g.FirstName) == "":
        return nil, validationError("first name is required")
    case strings.TrimSpace(g.LastName) == "":
        return nil, validationError("last name is required")
    case !strings.Contains(g.Email, "@"):
        return nil, validationError("a valid email is required")
    case strings.TrimSpace(g.Phone) == "":
        return nil, validationError("phone is required")
    case r.CheckIn.IsZero() || r.CheckOut.IsZero():
        return nil, validationError("check-in and check-out dates are required")
    case !r.CheckOut.After(r.CheckIn):
        return nil, validationError("check-out must be after check-in")
    case !r.PaymentMethod.IsValid():
        return nil, validationError("invalid payment method %q", r.PaymentMethod)
    case len(r.Rooms) == 0:
        return nil, validationError("at least one room is required")
    case r.Total < 0:
        return nil, validationError("total must not be negative")
    }

    qty := make(map[uint64]uint64, len(r.Rooms))
    for _, l := range r.Rooms {
        if l.RoomID == 0 {
            return nil, validationError("room id is required")
        }
        if l.Quantity < 1 {
            return nil, validationError("quantity for room %d must be at least 1", l.RoomID)
        }
        qty[l.RoomID] += uint64(l.Quantity)
        if qty[l.RoomID] > MaxLineQuantity {
            return nil, validationError("quantity for room %d must not exceed %d", l.RoomID, MaxLineQuantity)
        }
    }
    lines := make([]pricing.Line, 0, len(qty))
    for id, q := range qty {
        lines = append(lines, pricing.Line{RoomID: id, Quantity: uint32(q)})
    }
    sort.Slice(lines, func(i, j int) bool { return lines[i].RoomID < lines[j].RoomID })
    return lines, nil
}

// CreateBooking reserves the requested rooms and records the booking in a
// single transaction.  Either every room is decremented and the booking is
// stored, or nothing changes.  Transient storage failures and reference
// collisions re-run the whole transaction.
func (e *Engine) CreateBooking(ctx context.Context, req Request) (*Result, error) {
    lines, err := req.validate()
    if err != nil {
        return nil, err
    }

    var (
        res    *Result
        detail *model.BookingDetail
    )
    err = e.withRetry(ctx, "create_booking", func(ctx context.Context) error {
        var err error
        res, detail, err = e.createOnce(ctx, req, lines)
        return err
    })
    if err != nil {
        return nil, err
    }

    e.log.WithFields(logrus.Fields{
        "booking_id": res.BookingID,
        "reference":  res.Reference,
        "total":      res.CalculatedTotal.String(),
    }).Info("booking created")
    e.notify(ctx, detail)
    return res, nil
}

func (e *Engine) createOnce(ctx context.Context, req Request, lines []pricing.Line) (*Result, *model.BookingDetail, error) {
    u, err := e.uow.Begin(ctx, uow.TxOptions{})
    if err != nil {
        return nil, nil, storageError("begin", err)
    }
    committed := false
    defer e.rollback(u, &committed)

    ids := make([]uint64, len(lines))
    for i, l := range lines {
        ids[i] = l.RoomID
    }
    locked, err := u.Rooms().LockByIDs(ctx, ids)
    if err != nil {
        return nil, nil, storageError("lock rooms", err)
    }
    byID := make(map[uint64]model.Room, len(locked))
    prices := make(map[uint64]pricing.Cents, len(locked))
    for _, rm := range locked {
        byID[rm.ID] = rm
        prices[rm.ID] = rm.Price
    }

    total, missing, ok := pricing.Total(prices, lines)
    if !ok {
        return nil, nil, invalidRoomReference(missing)
    }
    if m := pricing.Validate(total, req.Total); m != nil {
        return nil, nil, priceMismatch(m)
    }

    for _, l := range lines {
        ok, err := u.Rooms().DecrementAvailable(ctx, l.RoomID, l.Quantity)
        if err != nil {
            return nil, nil, storageError("reserve room", err)
        }
        if !ok {
            return nil, nil, insufficientAvailability(l.RoomID)
        }
    }

    b := &model.Booking{
        Reference:       e.refs.NewReference(),
        Guest:           req.Guest,
        CheckIn:         req.CheckIn,
        CheckOut:        req.CheckOut,
        SpecialRequests: req.SpecialRequests,
        PaymentMethod:   req.PaymentMethod,
        TotalAmount:     total,
        Status:          e.cfg.InitialStatus,
    }
    if err := u.Bookings().Create(ctx, b); err != nil {
        if errors.Is(err, uow.ErrDuplicateKey) {
            return nil, nil, &Error{Code: CodeDuplicateReference, Message: "booking reference already in use", Err: err}
        }
        return nil, nil, storageError("insert booking", err)
    }

    rows := make([]model.BookingRoomLine, len(lines))
    details := make([]model.BookingLineDetail, len(lines))
    for i, l := range lines {
        rm := byID[l.RoomID]
        rows[i] = model.BookingRoomLine{
            BookingID:      b.ID,
            RoomID:         l.RoomID,
            Quantity:       l.Quantity,
            PriceAtBooking: rm.Price,
        }
        details[i] = model.BookingLineDetail{
            RoomID:         l.RoomID,
            Quantity:       l.Quantity,
            PriceAtBooking: rm.Price,
            Title:          rm.Title,
            Category:       rm.Category,
        }
    }
    if err := u.Bookings().CreateLines(ctx, rows); err != nil {
        return nil, nil, storageError("insert booking lines", err)
    }

    if err := u.Commit(ctx); err != nil {
        return nil, nil, storageError("commit", err)
    }
    committed = true

    res := &Result{
        BookingID:       b.ID,
        Reference:       b.Reference,
        Status:          b.Status,
        ProvidedTotal:   req.Total,
        CalculatedTotal: total,
    }
    return res, &model.BookingDetail{Booking: *b, Lines: details}, nil
}
