package booking

import (
    "strings"

    "github.com/google/uuid"
)

// ReferenceGenerator produces human shareable booking references.
type ReferenceGenerator interface {
    NewReference() string
}

// ReferenceFunc adapts a function to ReferenceGenerator.
type ReferenceFunc func() string

func (f ReferenceFunc) NewReference() string { return f() }

// UUIDReferences builds references of the form BOOK-1A2B3C4D from the
// first eight hex digits of a random UUID.  Collisions are caught by the
// unique key on booking_reference and retried.
var UUIDReferences ReferenceGenerator = ReferenceFunc(func() string {
    return "BOOK-" + strings.ToUpper(uuid.NewString()[:8])
})
