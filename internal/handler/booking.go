package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

const dateLayout = "2006-01-02"

// BookingHandler serves the public booking and catalog endpoints and the
// admin booking endpoints.
type BookingHandler struct {
    svc   BookingService
    cache CachePurger
    errs  errorWriter
    log   logrus.FieldLogger
}

// NewBookingHandler wires the handlers to svc.  cache may be nil.
func NewBookingHandler(svc BookingService, cache CachePurger, production bool, log logrus.FieldLogger) *BookingHandler {
    if svc == nil {
        panic("nil booking service passed to NewBookingHandler")
    }
    log = log.WithField("component", "http")
    return &BookingHandler{
        svc:   svc,
        cache: cache,
        errs:  errorWriter{production: production, log: log},
        log:   log,
    }
}

type roomLineRequest struct {
    ID       uint64 `json:"id" validate:"required"`
    Quantity uint32 `json:"quantity" validate:"required,min=1,max=1000"`
}

type createBookingRequest struct {
    FirstName       string            `json:"firstName" validate:"required,max=100"`
    LastName        string            `json:"lastName" validate:"required,max=100"`
    Email           string            `json:"email" validate:"required,email,max=255"`
    Phone           string            `json:"phone" validate:"required,max=32"`
    CheckIn         string            `json:"checkIn" validate:"required,datetime=2006-01-02"`
    CheckOut        string            `json:"checkOut" validate:"required,datetime=2006-01-02"`
    SpecialRequests *string           `json:"specialRequests" validate:"omitempty,max=2000"`
    PaymentMethod   string            `json:"paymentMethod" validate:"required,oneof=card cash bank_transfer mobile_money"`
    Rooms           []roomLineRequest `json:"rooms" validate:"required,min=1,dive"`
    Total           *pricing.Cents    `json:"total" validate:"required"`
}

func (r createBookingRequest) toEngine() (booking.Request, error) {
    in, err := time.Parse(dateLayout, r.CheckIn)
    if err != nil {
        return booking.Request{}, err
    }
    out, err := time.Parse(dateLayout, r.CheckOut)
    if err != nil {
        return booking.Request{}, err
    }
    lines := make([]booking.RoomLine, len(r.Rooms))
    for i, l := range r.Rooms {
        lines[i] = booking.RoomLine{RoomID: l.ID, Quantity: l.Quantity}
    }
    return booking.Request{
        Guest: model.Guest{
            FirstName: r.FirstName,
            LastName:  r.LastName,
            Email:     r.Email,
            Phone:     r.Phone,
        },
        CheckIn:         in,
        CheckOut:        out,
        SpecialRequests: r.SpecialRequests,
        PaymentMethod:   model.PaymentMethod(r.PaymentMethod),
        Rooms:           lines,
        Total:           *r.Total,
    }, nil
}

type createBookingResponse struct {
    Success         bool                `json:"success"`
    Reference       string              `json:"booking_reference"`
    BookingID       uint64              `json:"booking_id"`
    // TotalAmount echoes the client's total.  The stored amount is
    // CalculatedTotal.
    TotalAmount     pricing.Cents       `json:"total_amount"`
    CalculatedTotal pricing.Cents       `json:"calculated_total"`
    Status          model.BookingStatus `json:"status"`
}

// CreateBooking handles POST /api/booking.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var body createBookingRequest
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body", nil)
    }
    if err := c.Validate(&body); err != nil {
        d := map[string]any{}
        for k, v := range fieldErrors(err) {
            d[k] = v
        }
        return badRequest(c, "missing or invalid fields", d)
    }
    req, err := body.toEngine()
    if err != nil {
        return badRequest(c, "invalid date", nil)
    }

    res, err := h.svc.CreateBooking(c.Request().Context(), req)
    if err != nil {
        return h.errs.write(c, err, "booking failed")
    }
    h.purge(c.Request().Context())

    return c.JSON(http.StatusCreated, createBookingResponse{
        Success:         true,
        Reference:       res.Reference,
        BookingID:       res.BookingID,
        TotalAmount:     res.ProvidedTotal,
        CalculatedTotal: res.CalculatedTotal,
        Status:          res.Status,
    })
}

// purge drops the cached catalog; availability just changed.
func (h *BookingHandler) purge(ctx context.Context) {
    if h.cache == nil {
        return
    }
    if err := h.cache.Purge(context.WithoutCancel(ctx)); err != nil {
        h.log.WithError(err).Warn("room cache purge failed")
    }
}
