// Package queue defines message payloads exchanged over the message broker
// and the worker that consumes them.
package queue

import (
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// BookingQueueName is the durable queue confirmations are published to.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published when a booking is created or moved
// into the confirmed status.  It carries enough for downstream consumers
// to log or notify the guest without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID     uint64        `json:"booking_id"`
    Reference     string        `json:"booking_reference"`
    Status        string        `json:"status"`
    GuestName     string        `json:"guest_name"`
    Email         string        `json:"email"`
    Phone         string        `json:"phone"`
    CheckIn       string        `json:"check_in"`
    CheckOut      string        `json:"check_out"`
    PaymentMethod string        `json:"payment_method"`
    Rooms         []EventRoom   `json:"rooms"`
    TotalAmount   pricing.Cents `json:"total_amount"`
    ConfirmedAt   string        `json:"confirmed_at"`
}

// EventRoom is one booked room line.
type EventRoom struct {
    RoomID   uint64        `json:"room_id"`
    Title    string        `json:"title"`
    Quantity uint32        `json:"quantity"`
    Price    pricing.Cents `json:"price"`
}

// NewBookingConfirmedEvent builds the event for b at the given time.
func NewBookingConfirmedEvent(b *model.BookingDetail, at time.Time) BookingConfirmedEvent {
    rooms := make([]EventRoom, 0, len(b.Lines))
    for _, l := range b.Lines {
        rooms = append(rooms, EventRoom{RoomID: l.RoomID, Title: l.Title, Quantity: l.Quantity, Price: l.PriceAtBooking})
    }
    return BookingConfirmedEvent{
        BookingID:     b.ID,
        Reference:     b.Reference,
        Status:        string(b.Status),
        GuestName:     b.Guest.FirstName + " " + b.Guest.LastName,
        Email:         b.Guest.Email,
        Phone:         b.Guest.Phone,
        CheckIn:       b.CheckIn.Format("2006-01-02"),
        CheckOut:      b.CheckOut.Format("2006-01-02"),
        PaymentMethod: string(b.PaymentMethod),
        Rooms:         rooms,
        TotalAmount:   b.TotalAmount,
        ConfirmedAt:   at.UTC().Format(time.RFC3339),
    }
}
