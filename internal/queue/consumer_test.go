package queue

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/goccy/go-json"
    logtest "github.com/sirupsen/logrus/hooks/test"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

func sampleDetail() *model.BookingDetail {
    return &model.BookingDetail{
        Booking: model.Booking{
            ID:            3,
            Reference:     "BOOK-0A1B2C3D",
            Guest:         model.Guest{FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", Phone: "1"},
            CheckIn:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
            CheckOut:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
            PaymentMethod: model.PaymentCash,
            TotalAmount:   25000,
            Status:        model.StatusConfirmed,
        },
        Lines: []model.BookingLineDetail{
            {RoomID: 1, Quantity: 2, PriceAtBooking: 10000, Title: "Deluxe"},
            {RoomID: 2, Quantity: 1, PriceAtBooking: 5000, Title: "Single"},
        },
    }
}

func TestNewBookingConfirmedEvent(t *testing.T) {
    at := time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)
    ev := NewBookingConfirmedEvent(sampleDetail(), at)

    assert.Equal(t, uint64(3), ev.BookingID)
    assert.Equal(t, "Ada Obi", ev.GuestName)
    assert.Equal(t, "2024-06-01", ev.CheckIn)
    assert.Equal(t, "2024-05-20T08:30:00Z", ev.ConfirmedAt)
    require.Len(t, ev.Rooms, 2)
    assert.Equal(t, "Deluxe", ev.Rooms[0].Title)

    body, err := json.Marshal(ev)
    require.NoError(t, err)
    assert.Contains(t, string(body), `"total_amount":250.00`)
}

func TestConsumer_HandleMessage_AppendsLines(t *testing.T) {
    path := filepath.Join(t.TempDir(), "logs", "booking.log")
    log, _ := logtest.NewNullLogger()
    c := NewConsumer("amqp://unused", path, log)

    body, err := json.Marshal(NewBookingConfirmedEvent(sampleDetail(), time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)))
    require.NoError(t, err)
    require.NoError(t, c.HandleMessage(body))
    require.NoError(t, c.HandleMessage(body))

    data, err := os.ReadFile(path)
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    require.Len(t, lines, 2)
    assert.Equal(t,
        `[2024-05-20T08:30:00Z] Booking confirmed | booking_id=3 | reference=BOOK-0A1B2C3D | guest="Ada Obi" | email=ada@example.com | stay=2024-06-01..2024-06-03 | total=250.00 | rooms=[2xDeluxe,1xSingle]`,
        lines[0])
}

func TestConsumer_HandleMessage_Rejects(t *testing.T) {
    path := filepath.Join(t.TempDir(), "booking.log")
    log, _ := logtest.NewNullLogger()
    c := NewConsumer("amqp://unused", path, log)

    assert.Error(t, c.HandleMessage([]byte("{not json")))
    assert.Error(t, c.HandleMessage([]byte(`{"booking_id": 0}`)))
    _, err := os.Stat(path)
    assert.True(t, os.IsNotExist(err))
}
