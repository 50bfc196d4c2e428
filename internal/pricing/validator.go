package pricing

// Tolerance is the largest accepted difference between the computed and
// the client-declared total.
const Tolerance Cents = 1

// Line is one (room, quantity) pairing of a booking request.
type Line struct {
    RoomID   uint64
    Quantity uint32
}

// Mismatch describes a rejected client total.
type Mismatch struct {
    Expected   Cents
    Provided   Cents
    Difference Cents
}

// Total sums price*quantity over lines using the given unit prices.  The
// second result is false when a line references a room without a price;
// its id is returned so callers can report it.
func Total(prices map[uint64]Cents, lines []Line) (Cents, uint64, bool) {
    var total Cents
    for _, l := range lines {
        p, ok := prices[l.RoomID]
        if !ok {
            return 0, l.RoomID, false
        }
        total += p.Mul(l.Quantity)
    }
    return total, 0, true
}

// Validate compares the computed total with the client's.  It returns nil
// when they are within Tolerance.
func Validate(expected, provided Cents) *Mismatch {
    diff := (expected - provided).Abs()
    if diff <= Tolerance {
        return nil
    }
    return &Mismatch{Expected: expected, Provided: provided, Difference: diff}
}
