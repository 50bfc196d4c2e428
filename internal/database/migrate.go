package database

import (
    "context"
    "database/sql"
    "fmt"
)

const createRoomsSQL = `
CREATE TABLE IF NOT EXISTS rooms (
    id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    title           VARCHAR(255)  NOT NULL,
    category        VARCHAR(64)   NOT NULL,
    description     TEXT          NULL,
    price           DECIMAL(10,2) NOT NULL,
    size            VARCHAR(64)   NULL,
    capacity        INT UNSIGNED  NOT NULL DEFAULT 1,
    amenities       TEXT          NULL,
    main_image      VARCHAR(512)  NULL,
    gallery_images  TEXT          NULL,
    available_rooms INT UNSIGNED  NOT NULL DEFAULT 0,
    created_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    CONSTRAINT chk_rooms_available CHECK (available_rooms >= 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createBookingsSQL = `
CREATE TABLE IF NOT EXISTS bookings (
    id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    booking_reference VARCHAR(32)   NOT NULL,
    first_name        VARCHAR(100)  NOT NULL,
    last_name         VARCHAR(100)  NOT NULL,
    email             VARCHAR(255)  NOT NULL,
    phone             VARCHAR(32)   NOT NULL,
    check_in          DATE          NOT NULL,
    check_out         DATE          NOT NULL,
    special_requests  TEXT          NULL,
    payment_method    VARCHAR(32)   NOT NULL,
    total_amount      DECIMAL(12,2) NOT NULL,
    status            ENUM('pending','confirmed','cancelled','completed') NOT NULL DEFAULT 'confirmed',
    created_at        DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_bookings_reference (booking_reference),
    KEY idx_bookings_status_created (status, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const createBookingRoomsSQL = `
CREATE TABLE IF NOT EXISTS booking_rooms (
    id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    booking_id       BIGINT UNSIGNED NOT NULL,
    room_id          BIGINT UNSIGNED NOT NULL,
    quantity         INT UNSIGNED    NOT NULL,
    price_at_booking DECIMAL(10,2)   NOT NULL,
    UNIQUE KEY uq_booking_rooms_line (booking_id, room_id),
    CONSTRAINT fk_booking_rooms_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE,
    CONSTRAINT fk_booking_rooms_room FOREIGN KEY (room_id) REFERENCES rooms (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// migrations run in order; every statement is idempotent.
var migrations = []struct {
    name string
    sql  string
}{
    {"rooms", createRoomsSQL},
    {"bookings", createBookingsSQL},
    {"booking_rooms", createBookingRoomsSQL},
}

// Migrate creates the rooms, bookings and booking_rooms tables when they do
// not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
    for _, m := range migrations {
        if _, err := db.ExecContext(ctx, m.sql); err != nil {
            return fmt.Errorf("migrate %s: %w", m.name, err)
        }
    }
    return nil
}
