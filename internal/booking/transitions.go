package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// Delta is the inventory adjustment a status transition requires.
type Delta int

const (
    // DeltaNone leaves available_rooms untouched.
    DeltaNone Delta = iota
    // DeltaRelease returns every line's quantity to its room.
    DeltaRelease
    // DeltaReserve takes every line's quantity again, failing the whole
    // transition if any room cannot cover it.
    DeltaReserve
)

func (d Delta) String() string {
    switch d {
    case DeltaRelease:
        return "release"
    case DeltaReserve:
        return "reserve"
    }
    return "none"
}

type transition struct {
    from, to model.BookingStatus
}

// transitions is keyed by (current, requested) and covers every pair of
// known statuses.  Moves back out of cancelled or completed are administrative
// overrides and must re-reserve inventory.
var transitions = map[transition]Delta{
    {model.StatusPending, model.StatusPending}:   DeltaNone,
    {model.StatusPending, model.StatusConfirmed}: DeltaNone,
    {model.StatusPending, model.StatusCancelled}: DeltaRelease,
    {model.StatusPending, model.StatusCompleted}: DeltaRelease,

    {model.StatusConfirmed, model.StatusPending}:   DeltaNone,
    {model.StatusConfirmed, model.StatusConfirmed}: DeltaNone,
    {model.StatusConfirmed, model.StatusCancelled}: DeltaRelease,
    {model.StatusConfirmed, model.StatusCompleted}: DeltaRelease,

    {model.StatusCancelled, model.StatusPending}:   DeltaReserve,
    {model.StatusCancelled, model.StatusConfirmed}: DeltaReserve,
    {model.StatusCancelled, model.StatusCancelled}: DeltaNone,
    {model.StatusCancelled, model.StatusCompleted}: DeltaNone,

    {model.StatusCompleted, model.StatusPending}:   DeltaReserve,
    {model.StatusCompleted, model.StatusConfirmed}: DeltaReserve,
    {model.StatusCompleted, model.StatusCancelled}: DeltaNone,
    {model.StatusCompleted, model.StatusCompleted}: DeltaNone,
}

// Transition returns the inventory delta for moving from one status to
// another and whether the move is allowed at all.
func Transition(from, to model.BookingStatus) (Delta, bool) {
    d, ok := transitions[transition{from, to}]
    return d, ok
}
