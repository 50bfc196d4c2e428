package handler

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

type bookingView struct {
    ID              uint64                    `json:"id"`
    Reference       string                    `json:"booking_reference"`
    FirstName       string                    `json:"first_name"`
    LastName        string                    `json:"last_name"`
    Email           string                    `json:"email"`
    Phone           string                    `json:"phone"`
    CheckIn         string                    `json:"check_in"`
    CheckOut        string                    `json:"check_out"`
    SpecialRequests *string                   `json:"special_requests"`
    PaymentMethod   model.PaymentMethod       `json:"payment_method"`
    TotalAmount     pricing.Cents             `json:"total_amount"`
    Status          model.BookingStatus       `json:"status"`
    CreatedAt       time.Time                 `json:"created_at"`
    UpdatedAt       time.Time                 `json:"updated_at"`
    Rooms           []model.BookingLineDetail `json:"rooms"`
}

func newBookingView(d model.BookingDetail) bookingView {
    rooms := d.Lines
    if rooms == nil {
        rooms = []model.BookingLineDetail{}
    }
    return bookingView{
        ID:              d.ID,
        Reference:       d.Reference,
        FirstName:       d.Guest.FirstName,
        LastName:        d.Guest.LastName,
        Email:           d.Guest.Email,
        Phone:           d.Guest.Phone,
        CheckIn:         d.CheckIn.Format(dateLayout),
        CheckOut:        d.CheckOut.Format(dateLayout),
        SpecialRequests: d.SpecialRequests,
        PaymentMethod:   d.PaymentMethod,
        TotalAmount:     d.TotalAmount,
        Status:          d.Status,
        CreatedAt:       d.CreatedAt,
        UpdatedAt:       d.UpdatedAt,
        Rooms:           rooms,
    }
}

type bookingListResponse struct {
    Data       []bookingView      `json:"data"`
    Pagination booking.Pagination `json:"pagination"`
}

func queryInt(c echo.Context, name string) (int, bool) {
    raw := c.QueryParam(name)
    if raw == "" {
        return 0, true
    }
    n, err := strconv.Atoi(raw)
    return n, err == nil
}

func bookingID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    return id, err == nil && id > 0
}

// ListBookings handles GET /api/admin/bookings?status=&page=&limit=.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    page, ok := queryInt(c, "page")
    if !ok {
        return badRequest(c, "page must be an integer", nil)
    }
    limit, ok := queryInt(c, "limit")
    if !ok {
        return badRequest(c, "limit must be an integer", nil)
    }

    res, err := h.svc.ListBookings(c.Request().Context(), booking.ListQuery{
        Status: c.QueryParam("status"),
        Page:   page,
        Limit:  limit,
    })
    if err != nil {
        return h.errs.write(c, err, "failed to fetch bookings")
    }
    out := bookingListResponse{Data: make([]bookingView, len(res.Items)), Pagination: res.Pagination}
    for i, d := range res.Items {
        out.Data[i] = newBookingView(d)
    }
    return c.JSON(http.StatusOK, out)
}

// GetBooking handles GET /api/admin/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    id, ok := bookingID(c)
    if !ok {
        return badRequest(c, "invalid booking id", nil)
    }
    d, err := h.svc.GetBooking(c.Request().Context(), id)
    if err != nil {
        return h.errs.write(c, err, "failed to fetch booking")
    }
    return c.JSON(http.StatusOK, newBookingView(*d))
}

type statusRequest struct {
    Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /api/admin/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    id, ok := bookingID(c)
    if !ok {
        return badRequest(c, "invalid booking id", nil)
    }
    var body statusRequest
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body", nil)
    }
    if err := c.Validate(&body); err != nil {
        return badRequest(c, "status is required", nil)
    }

    ctx := c.Request().Context()
    if err := h.svc.SetStatus(ctx, id, body.Status); err != nil {
        return h.errs.write(c, err, "failed to update booking status")
    }
    h.purge(ctx)

    status := strings.ToLower(strings.TrimSpace(body.Status))
    h.log.WithFields(logrus.Fields{
        "booking_id": id,
        "status":     status,
        "admin":      middleware.Subject(c),
    }).Info("admin changed booking status")
    return c.JSON(http.StatusOK, echo.Map{
        "success": true,
        "message": fmt.Sprintf("Booking %s successfully", status),
    })
}
