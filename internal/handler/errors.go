package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
    Error   string         `json:"error"`
    Message string         `json:"message"`
    Details map[string]any `json:"details,omitempty"`
}

// errorWriter turns engine errors into HTTP responses.  Outside production
// unexpected errors carry their text in details.
type errorWriter struct {
    production bool
    log        logrus.FieldLogger
}

func statusFor(code booking.Code) int {
    switch code {
    case booking.CodeBookingNotFound:
        return http.StatusNotFound
    case booking.CodeValidation,
        booking.CodeInvalidRoomReference,
        booking.CodePriceMismatch,
        booking.CodeInsufficientAvailability,
        booking.CodeInvalidStatus,
        booking.CodeInvalidTransition,
        booking.CodeAvailabilityReservationFailed:
        return http.StatusBadRequest
    }
    return http.StatusInternalServerError
}

func (w errorWriter) write(c echo.Context, err error, fallback string) error {
    if e, ok := booking.AsError(err); ok {
        if status := statusFor(e.Code); status != http.StatusInternalServerError {
            return c.JSON(status, ErrorBody{Error: string(e.Code), Message: e.Message, Details: details(e)})
        }
    }

    w.log.WithError(err).WithField("path", c.Path()).Error(fallback)
    body := ErrorBody{Error: "INTERNAL_ERROR", Message: fallback}
    if !w.production {
        body.Details = map[string]any{"cause": err.Error()}
    }
    return c.JSON(http.StatusInternalServerError, body)
}

func details(e *booking.Error) map[string]any {
    switch e.Code {
    case booking.CodePriceMismatch:
        return map[string]any{
            "provided_total":   e.Provided,
            "calculated_total": e.Expected,
            "difference":       e.Difference,
        }
    case booking.CodeInvalidRoomReference,
        booking.CodeInsufficientAvailability,
        booking.CodeAvailabilityReservationFailed:
        return map[string]any{"room_id": e.RoomID}
    }
    return nil
}

func badRequest(c echo.Context, msg string, d map[string]any) error {
    return c.JSON(http.StatusBadRequest, ErrorBody{Error: string(booking.CodeValidation), Message: msg, Details: d})
}
