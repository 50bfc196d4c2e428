package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

var roomCols = []string{
    "id", "title", "category", "description", "price", "size", "capacity",
    "amenities", "main_image", "gallery_images", "available_rooms",
    "created_at", "updated_at",
}

func roomRow(rows *sqlmock.Rows, id int64, price string, avail int64) *sqlmock.Rows {
    now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
    return rows.AddRow(id, "Deluxe", "suite", nil, price, "40m2", int64(2),
        "wifi, tv,,minibar", "main.jpg", nil, avail, now, now)
}

func TestRoomRepo_ListAll(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    rows := sqlmock.NewRows(roomCols)
    roomRow(rows, 1, "100.00", 3)
    roomRow(rows, 2, "49.5", 0)
    mock.ExpectQuery(`SELECT .* FROM rooms ORDER BY id`).WillReturnRows(rows)

    rooms, err := NewRoomRepo(db).ListAll(context.Background())
    require.NoError(t, err)
    require.Len(t, rooms, 2)
    assert.Equal(t, pricing.Cents(10000), rooms[0].Price)
    assert.Equal(t, []string{"wifi", "tv", "minibar"}, rooms[0].Amenities)
    assert.Equal(t, []string{}, rooms[0].Gallery)
    assert.Equal(t, "", rooms[0].Description)
    assert.Equal(t, uint32(2), rooms[0].Capacity)
    assert.Equal(t, pricing.Cents(4950), rooms[1].Price)
    assert.Equal(t, uint32(0), rooms[1].AvailableRooms)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_LockByIDsTx_SortsIDs(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    rows := sqlmock.NewRows(roomCols)
    roomRow(rows, 2, "80.00", 1)
    roomRow(rows, 7, "120.00", 4)
    mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE id IN (?, ?) ORDER BY id FOR UPDATE`)).
        WithArgs(uint64(2), uint64(7)).
        WillReturnRows(rows)
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)
    rooms, err := NewRoomRepo(db).LockByIDsTx(context.Background(), tx, []uint64{7, 2})
    require.NoError(t, err)
    require.Len(t, rooms, 2)
    assert.Equal(t, uint64(2), rooms[0].ID)
    assert.Equal(t, uint64(7), rooms[1].ID)
    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_DecrementAvailableTx(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    q := regexp.QuoteMeta(`UPDATE rooms SET available_rooms = available_rooms - ? WHERE id = ? AND available_rooms >= ?`)
    mock.ExpectBegin()
    mock.ExpectExec(q).WithArgs(uint32(2), uint64(1), uint32(2)).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(q).WithArgs(uint32(5), uint64(1), uint32(5)).WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectCommit()

    repo := NewRoomRepo(db)
    tx, err := db.Begin()
    require.NoError(t, err)

    ok, err := repo.DecrementAvailableTx(context.Background(), tx, 1, 2)
    require.NoError(t, err)
    assert.True(t, ok)

    ok, err = repo.DecrementAvailableTx(context.Background(), tx, 1, 5)
    require.NoError(t, err)
    assert.False(t, ok)

    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_IncrementAvailableTx_Deadlock(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET available_rooms = available_rooms + ? WHERE id = ?`)).
        WithArgs(uint32(1), uint64(3)).
        WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)
    err = NewRoomRepo(db).IncrementAvailableTx(context.Background(), tx, 3, 1)
    assert.ErrorIs(t, err, uow.ErrTransient)
    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapErr(t *testing.T) {
    plain := errors.New("boom")
    cases := []struct {
        name string
        in   error
        want error
    }{
        {"duplicate", &mysql.MySQLError{Number: 1062}, uow.ErrDuplicateKey},
        {"lock wait", &mysql.MySQLError{Number: 1205}, uow.ErrTransient},
        {"deadlock", &mysql.MySQLError{Number: 1213}, uow.ErrTransient},
        {"bad conn", driver.ErrBadConn, uow.ErrTransient},
        {"invalid conn", mysql.ErrInvalidConn, uow.ErrTransient},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.ErrorIs(t, mapErr(tc.in), tc.want)
        })
    }
    assert.Nil(t, mapErr(nil))
    assert.Same(t, plain, mapErr(plain))
    other := &mysql.MySQLError{Number: 1146}
    assert.Same(t, other, mapErr(other))
}
