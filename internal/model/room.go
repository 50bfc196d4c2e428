package model

import (
    "time"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// Room describes a bookable room type of the hotel.  A row holds the
// unit price and the number of units that are still unreserved.
// AvailableRooms is only changed inside a transaction that holds the
// row lock on the room.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – display name of the room type.
//  Category       – grouping used by the catalog (e.g. standard, suite).
//  Description    – free text shown in the catalog.
//  Price          – unit price per booking line in cents.
//  Size           – surface description as entered by staff.
//  Capacity       – guests per unit.
//  Amenities      – amenity labels (stored as CSV).
//  MainImage      – primary image URL.
//  Gallery        – additional image URLs (stored as CSV).
//  AvailableRooms – unreserved units, never negative.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Room struct {
    ID             uint64        // rooms.id
    Title          string        // rooms.title
    Category       string        // rooms.category
    Description    string        // rooms.description
    Price          pricing.Cents // rooms.price (DECIMAL(10,2))
    Size           string        // rooms.size
    Capacity       uint32        // rooms.capacity
    Amenities      []string      // rooms.amenities
    MainImage      string        // rooms.main_image
    Gallery        []string      // rooms.gallery_images
    AvailableRooms uint32        // rooms.available_rooms
    CreatedAt      time.Time     // rooms.created_at
    UpdatedAt      time.Time     // rooms.updated_at
}
