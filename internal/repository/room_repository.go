package repository

import (
    "context"
    "database/sql"
    "sort"
    "strings"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides access to the rooms table.  Catalog reads go through
// the pool; every method suffixed with Tx runs inside the caller's
// transaction and is the only way available_rooms is changed.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to db.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = `id, title, category, description, price, size, capacity,
                     amenities, main_image, gallery_images, available_rooms,
                     created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

func scanRoom(s rowScanner) (model.Room, error) {
    var (
        rm                                    model.Room
        desc, size, amenities, main, gallery sql.NullString
    )
    err := s.Scan(
        &rm.ID, &rm.Title, &rm.Category, &desc, &rm.Price, &size, &rm.Capacity,
        &amenities, &main, &gallery, &rm.AvailableRooms,
        &rm.CreatedAt, &rm.UpdatedAt,
    )
    if err != nil {
        return model.Room{}, err
    }
    rm.Description = desc.String
    rm.Size = size.String
    rm.MainImage = main.String
    rm.Amenities = splitCSV(amenities.String)
    rm.Gallery = splitCSV(gallery.String)
    return rm, nil
}

// splitCSV turns the comma separated amenities and gallery columns into
// slices, dropping blank entries.
func splitCSV(s string) []string {
    out := []string{}
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}

// inClause returns "?, ?, ?" for n placeholders and the ids as args.
func inClause(ids []uint64) (string, []any) {
    ph := make([]string, len(ids))
    args := make([]any, len(ids))
    for i, id := range ids {
        ph[i] = "?"
        args[i] = id
    }
    return strings.Join(ph, ", "), args
}

func (r *RoomRepo) queryRooms(ctx context.Context, q querier, query string, args ...any) ([]model.Room, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    rooms := []model.Room{}
    for rows.Next() {
        rm, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        rooms = append(rooms, rm)
    }
    if err := rows.Err(); err != nil {
        return nil, mapErr(err)
    }
    return rooms, nil
}

// querier is the subset of *sql.DB and *sql.Tx used for reads.
type querier interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ListAll returns the whole catalog ordered by id.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
    return r.queryRooms(ctx, r.db, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
}

// GetByIDs returns the rooms among ids without locking them.  Missing ids
// are not an error; they are just absent from the result.
func (r *RoomRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
    if len(ids) == 0 {
        return []model.Room{}, nil
    }
    in, args := inClause(ids)
    return r.queryRooms(ctx, r.db, `SELECT `+roomColumns+` FROM rooms WHERE id IN (`+in+`) ORDER BY id`, args...)
}

// LockByIDsTx reads the rooms among ids with an exclusive row lock held
// until tx ends.  ids are sorted first and rows come back in ascending id
// order so that every transaction acquires room locks in the same order.
func (r *RoomRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Room, error) {
    if len(ids) == 0 {
        return []model.Room{}, nil
    }
    sorted := append([]uint64(nil), ids...)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
    in, args := inClause(sorted)
    return r.queryRooms(ctx, tx, `SELECT `+roomColumns+` FROM rooms WHERE id IN (`+in+`) ORDER BY id FOR UPDATE`, args...)
}

// DecrementAvailableTx subtracts qty from available_rooms only when at
// least qty units remain.  It returns false when no row matched, which the
// caller treats as insufficient availability.
func (r *RoomRepo) DecrementAvailableTx(ctx context.Context, tx *sql.Tx, roomID uint64, qty uint32) (bool, error) {
    const q = `UPDATE rooms SET available_rooms = available_rooms - ?
               WHERE id = ? AND available_rooms >= ?`
    res, err := tx.ExecContext(ctx, q, qty, roomID, qty)
    if err != nil {
        return false, mapErr(err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, mapErr(err)
    }
    return n == 1, nil
}

// IncrementAvailableTx returns qty units of the room to the pool.
func (r *RoomRepo) IncrementAvailableTx(ctx context.Context, tx *sql.Tx, roomID uint64, qty uint32) error {
    const q = `UPDATE rooms SET available_rooms = available_rooms + ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, qty, roomID)
    return mapErr(err)
}
