package model

import (
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
    StatusPending   BookingStatus = "pending"
    StatusConfirmed BookingStatus = "confirmed"
    StatusCancelled BookingStatus = "cancelled"
    StatusCompleted BookingStatus = "completed"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// IsValid reports whether s is one of the known statuses.
func (s BookingStatus) IsValid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
        return true
    }
    return false
}

// IsActive reports whether a booking in this status holds inventory.
func (s BookingStatus) IsActive() bool {
    return s == StatusPending || s == StatusConfirmed
}

func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus normalises and validates a status string.
func ParseBookingStatus(raw string) (BookingStatus, error) {
    s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
    if !s.IsValid() {
        return "", fmt.Errorf("invalid booking status: %q", raw)
    }
    return s, nil
}

// PaymentMethod is the way the guest intends to settle the booking.
type PaymentMethod string

const (
    PaymentCard         PaymentMethod = "card"
    PaymentCash         PaymentMethod = "cash"
    PaymentBankTransfer PaymentMethod = "bank_transfer"
    PaymentMobileMoney  PaymentMethod = "mobile_money"
)

// IsValid reports whether m is an accepted payment method.
func (m PaymentMethod) IsValid() bool {
    switch m {
    case PaymentCard, PaymentCash, PaymentBankTransfer, PaymentMobileMoney:
        return true
    }
    return false
}

// Guest holds the contact fields captured with a booking.
type Guest struct {
    FirstName string // bookings.first_name
    LastName  string // bookings.last_name
    Email     string // bookings.email
    Phone     string // bookings.phone
}

// Booking records a guest's reservation of one or more room lines.
// It is created once by the booking coordinator; afterwards only its
// status changes.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – human shareable unique code (BOOK-XXXXXXXX).
//  Guest           – guest contact fields.
//  CheckIn         – arrival date.
//  CheckOut        – departure date, after CheckIn.
//  SpecialRequests – optional free text.
//  PaymentMethod   – declared payment method.
//  TotalAmount     – sum of line subtotals in cents at creation.
//  Status          – lifecycle status.
//  CreatedAt       – creation timestamp, immutable.
//  UpdatedAt       – last status change.
type Booking struct {
    ID              uint64        // bookings.id
    Reference       string        // bookings.booking_reference
    Guest           Guest         // bookings.first_name .. phone
    CheckIn         time.Time     // bookings.check_in
    CheckOut        time.Time     // bookings.check_out
    SpecialRequests *string       // bookings.special_requests (nullable)
    PaymentMethod   PaymentMethod // bookings.payment_method
    TotalAmount     pricing.Cents // bookings.total_amount
    Status          BookingStatus // bookings.status
    CreatedAt       time.Time     // bookings.created_at
    UpdatedAt       time.Time     // bookings.updated_at
}

// BookingRoomLine links a booking to a room with the quantity reserved
// and the unit price captured when the booking was made.  Inventory
// reconciliation always works from these rows.
type BookingRoomLine struct {
    BookingID      uint64        // booking_rooms.booking_id
    RoomID         uint64        // booking_rooms.room_id
    Quantity       uint32        // booking_rooms.quantity
    PriceAtBooking pricing.Cents // booking_rooms.price_at_booking
}

// Subtotal is the line's contribution to the booking total.
func (l BookingRoomLine) Subtotal() pricing.Cents {
    return l.PriceAtBooking.Mul(l.Quantity)
}

// BookingLineDetail is a line joined with the room's catalog fields
// for display.
type BookingLineDetail struct {
    RoomID         uint64        `json:"id"`
    Quantity       uint32        `json:"quantity"`
    PriceAtBooking pricing.Cents `json:"price"`
    Title          string        `json:"title"`
    Category       string        `json:"category"`
}

// BookingDetail is a booking together with its lines.
type BookingDetail struct {
    Booking
    Lines []BookingLineDetail
}

// BookingFilter narrows a booking listing.  An empty Status matches every
// booking.
type BookingFilter struct {
    Status BookingStatus
    Limit  int
    Offset int
}
