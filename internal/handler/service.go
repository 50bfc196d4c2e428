// Package handler exposes the booking engine over HTTP.
package handler

import (
    "context"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingService is the part of *booking.Engine the handlers use.
type BookingService interface {
    CreateBooking(ctx context.Context, req booking.Request) (*booking.Result, error)
    SetStatus(ctx context.Context, bookingID uint64, status string) error
    GetBooking(ctx context.Context, id uint64) (*model.BookingDetail, error)
    ListBookings(ctx context.Context, q booking.ListQuery) (*booking.BookingPage, error)
    ListRooms(ctx context.Context, ids []uint64) ([]model.Room, error)
}

// CachePurger drops cached catalog responses after availability changes.
type CachePurger interface {
    Purge(ctx context.Context) error
}

var _ BookingService = (*booking.Engine)(nil)
