package booking

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

func TestTransitionTable(t *testing.T) {
    for _, from := range model.Statuses {
        for _, to := range model.Statuses {
            d, ok := Transition(from, to)
            name := from.String() + "->" + to.String()

            if !assert.True(t, ok, name) {
                continue
            }
            switch {
            case from.IsActive() && !to.IsActive():
                assert.Equal(t, DeltaRelease, d, name)
            case !from.IsActive() && to.IsActive():
                assert.Equal(t, DeltaReserve, d, name)
            default:
                assert.Equal(t, DeltaNone, d, name)
            }
        }
    }
}

func TestTransition_UnknownStatus(t *testing.T) {
    _, ok := Transition("archived", model.StatusPending)
    assert.False(t, ok)
}

func TestDeltaString(t *testing.T) {
    assert.Equal(t, "none", DeltaNone.String())
    assert.Equal(t, "release", DeltaRelease.String())
    assert.Equal(t, "reserve", DeltaReserve.String())
}
