package booking

import (
    "context"
    "errors"
    "fmt"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

const (
    defaultPageLimit = 10
    maxPageLimit     = 100
)

// ListQuery selects a page of bookings.  Status is optional.
type ListQuery struct {
    Status string
    Page   int
    Limit  int
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
    Total       int  `json:"total"`
    Page        int  `json:"page"`
    Limit       int  `json:"limit"`
    TotalPages  int  `json:"total_pages"`
    HasNextPage bool `json:"has_next_page"`
    HasPrevPage bool `json:"has_prev_page"`
}

// BookingPage is one page of bookings.
type BookingPage struct {
    Items      []model.BookingDetail
    Pagination Pagination
}

// GetBooking returns a booking with its lines.
func (e *Engine) GetBooking(ctx context.Context, id uint64) (*model.BookingDetail, error) {
    d, err := e.bookings.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, uow.ErrNotFound) {
            return nil, &Error{Code: CodeBookingNotFound, Message: "booking not found", Err: err}
        }
        return nil, fmt.Errorf("get booking: %w", err)
    }
    return d, nil
}

// ListBookings returns bookings newest first.  Page starts at 1; Limit
// defaults to 10 and is capped at 100.
func (e *Engine) ListBookings(ctx context.Context, q ListQuery) (*BookingPage, error) {
    var status model.BookingStatus
    if q.Status != "" {
        s, err := model.ParseBookingStatus(q.Status)
        if err != nil {
            return nil, &Error{Code: CodeInvalidStatus, Message: fmt.Sprintf("invalid status %q", q.Status)}
        }
        status = s
    }
    page, limit := q.Page, q.Limit
    if page < 1 {
        page = 1
    }
    if limit < 1 {
        limit = defaultPageLimit
    }
    if limit > maxPageLimit {
        limit = maxPageLimit
    }

    items, total, err := e.bookings.List(ctx, model.BookingFilter{
        Status: status,
        Limit:  limit,
        Offset: (page - 1) * limit,
    })
    if err != nil {
        return nil, fmt.Errorf("list bookings: %w", err)
    }
    return &BookingPage{Items: items, Pagination: paginate(total, page, limit)}, nil
}

func paginate(total, page, limit int) Pagination {
    return Pagination{
        Total:       total,
        Page:        page,
        Limit:       limit,
        TotalPages:  (total + limit - 1) / limit,
        HasNextPage: page*limit < total,
        HasPrevPage: page > 1,
    }
}

// ListRooms returns the room catalog, or only the rooms among ids when
// ids is not empty.  Unknown ids are skipped.
func (e *Engine) ListRooms(ctx context.Context, ids []uint64) ([]model.Room, error) {
    var (
        rooms []model.Room
        err   error
    )
    if len(ids) == 0 {
        rooms, err = e.rooms.ListAll(ctx)
    } else {
        rooms, err = e.rooms.GetByIDs(ctx, ids)
    }
    if err != nil {
        return nil, fmt.Errorf("list rooms: %w", err)
    }
    return rooms, nil
}
