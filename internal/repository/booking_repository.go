package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo provides access to the bookings ledger and its
// booking_rooms lines.  Bookings are inserted once by the coordinator;
// afterwards only their status column is updated.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// dateLayout is the format of the DATE columns check_in and check_out.
const dateLayout = "2006-01-02"

const bookingColumns = `b.id, b.booking_reference, b.first_name, b.last_name, b.email, b.phone,
                        b.check_in, b.check_out, b.special_requests, b.payment_method,
                        b.total_amount, b.status, b.created_at, b.updated_at`

func scanBooking(s rowScanner) (model.Booking, error) {
    var (
        b   model.Booking
        req sql.NullString
    )
    err := s.Scan(
        &b.ID, &b.Reference, &b.Guest.FirstName, &b.Guest.LastName, &b.Guest.Email, &b.Guest.Phone,
        &b.CheckIn, &b.CheckOut, &req, &b.PaymentMethod,
        &b.TotalAmount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return model.Booking{}, err
    }
    if req.Valid {
        v := req.String
        b.SpecialRequests = &v
    }
    return b, nil
}

// CreateTx inserts a booking within the caller's transaction and sets
// its generated ID.  A booking_reference collision is reported as
// uow.ErrDuplicateKey so the caller can retry with a new reference.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (booking_reference, first_name, last_name, email, phone,
                                     check_in, check_out, special_requests, payment_method,
                                     total_amount, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    var req any
    if b.SpecialRequests != nil {
        req = *b.SpecialRequests
    }
    res, err := tx.ExecContext(ctx, q,
        b.Reference, b.Guest.FirstName, b.Guest.LastName, b.Guest.Email, b.Guest.Phone,
        b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), req, string(b.PaymentMethod),
        b.TotalAmount, string(b.Status),
    )
    if err != nil {
        return mapErr(err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return mapErr(err)
    }
    b.ID = uint64(id)
    return nil
}

// CreateLinesBulkTx inserts all booking_rooms rows in one statement.
// Passing an empty slice has no effect.
func (r *BookingRepo) CreateLinesBulkTx(ctx context.Context, tx *sql.Tx, lines []model.BookingRoomLine) error {
    if len(lines) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO booking_rooms (booking_id, room_id, quantity, price_at_booking) VALUES `)
    args := make([]any, 0, len(lines)*4)
    for i, l := range lines {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?, ?, ?)")
        args = append(args, l.BookingID, l.RoomID, l.Quantity, l.PriceAtBooking)
    }
    _, err := tx.ExecContext(ctx, sb.String(), args...)
    return mapErr(err)
}

// LockStatusTx locks the booking row for the rest of tx and returns its
// current status.  uow.ErrNotFound is returned for an unknown id.
func (r *BookingRepo) LockStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (model.BookingStatus, error) {
    var status string
    err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ? FOR UPDATE`, bookingID).Scan(&status)
    if err != nil {
        return "", mapErr(err)
    }
    return model.BookingStatus(status), nil
}

// LinesTx returns the booking's lines ordered by room id, which is the
// order inventory rows are touched in during reconciliation.
func (r *BookingRepo) LinesTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.BookingRoomLine, error) {
    const q = `SELECT booking_id, room_id, quantity, price_at_booking
               FROM booking_rooms WHERE booking_id = ? ORDER BY room_id`
    rows, err := tx.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    lines := []model.BookingRoomLine{}
    for rows.Next() {
        var l model.BookingRoomLine
        if err := rows.Scan(&l.BookingID, &l.RoomID, &l.Quantity, &l.PriceAtBooking); err != nil {
            return nil, err
        }
        lines = append(lines, l)
    }
    if err := rows.Err(); err != nil {
        return nil, mapErr(err)
    }
    return lines, nil
}

// UpdateStatusTx sets the booking's status.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error {
    _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), bookingID)
    return mapErr(err)
}

// GetByID returns a booking with its lines joined to the room's title
// and category.  uow.ErrNotFound is returned for an unknown id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ?`, id)
    b, err := scanBooking(row)
    if err != nil {
        return nil, mapErr(err)
    }
    lines, err := r.lineDetails(ctx, []uint64{b.ID})
    if err != nil {
        return nil, err
    }
    return &model.BookingDetail{Booking: b, Lines: lines[b.ID]}, nil
}

// List returns one page of bookings, newest first, and the number of
// bookings matching the filter.
func (r *BookingRepo) List(ctx context.Context, f model.BookingFilter) ([]model.BookingDetail, int, error) {
    where := ""
    var args []any
    if f.Status != "" {
        where = ` WHERE b.status = ?`
        args = append(args, string(f.Status))
    }

    var total int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
        return nil, 0, mapErr(err)
    }

    q := `SELECT ` + bookingColumns + ` FROM bookings b` + where + ` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`
    rows, err := r.db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
    if err != nil {
        return nil, 0, mapErr(err)
    }
    defer rows.Close()
    out := []model.BookingDetail{}
    ids := []uint64{}
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, model.BookingDetail{Booking: b})
        ids = append(ids, b.ID)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, mapErr(err)
    }
    if len(ids) == 0 {
        return out, total, nil
    }
    lines, err := r.lineDetails(ctx, ids)
    if err != nil {
        return nil, 0, err
    }
    for i := range out {
        out[i].Lines = lines[out[i].ID]
    }
    return out, total, nil
}

// lineDetails loads the lines of the given bookings keyed by booking id.
// Every requested id has an entry, possibly empty.
func (r *BookingRepo) lineDetails(ctx context.Context, bookingIDs []uint64) (map[uint64][]model.BookingLineDetail, error) {
    in, args := inClause(bookingIDs)
    q := `SELECT br.booking_id, br.room_id, br.quantity, br.price_at_booking,
                 COALESCE(r.title, ''), COALESCE(r.category, '')
          FROM booking_rooms br
          LEFT JOIN rooms r ON r.id = br.room_id
          WHERE br.booking_id IN (` + in + `)
          ORDER BY br.booking_id, br.room_id`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    out := make(map[uint64][]model.BookingLineDetail, len(bookingIDs))
    for _, id := range bookingIDs {
        out[id] = []model.BookingLineDetail{}
    }
    for rows.Next() {
        var (
            bookingID uint64
            d         model.BookingLineDetail
        )
        if err := rows.Scan(&bookingID, &d.RoomID, &d.Quantity, &d.PriceAtBooking, &d.Title, &d.Category); err != nil {
            return nil, err
        }
        out[bookingID] = append(out[bookingID], d)
    }
    if err := rows.Err(); err != nil {
        return nil, mapErr(err)
    }
    return out, nil
}
