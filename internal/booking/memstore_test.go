package booking

import (
    "context"
    "fmt"
    "sort"
    "sync"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// memStore is an in-memory database for engine tests.  Row locks are
// emulated with one mutex per row held until the owning unit of work ends,
// and every write is journaled so Rollback restores the previous state.
type memStore struct {
    mu       sync.Mutex
    rooms    map[uint64]*model.Room
    bookings map[uint64]*model.Booking
    lines    map[uint64][]model.BookingRoomLine
    refs     map[string]uint64
    nextID   uint64
    locks    map[string]*sync.Mutex

    // createErrs are returned, in order, by the next Create calls.
    createErrs []error
    begins     int
}

func newMemStore(rooms ...model.Room) *memStore {
    s := &memStore{
        rooms:    map[uint64]*model.Room{},
        bookings: map[uint64]*model.Booking{},
        lines:    map[uint64][]model.BookingRoomLine{},
        refs:     map[string]uint64{},
        locks:    map[string]*sync.Mutex{},
    }
    for i := range rooms {
        rm := rooms[i]
        s.rooms[rm.ID] = &rm
    }
    return s
}

func room(id uint64, price pricing.Cents, avail uint32) model.Room {
    return model.Room{ID: id, Title: fmt.Sprintf("Room %d", id), Category: "standard", Price: price, AvailableRooms: avail}
}

func (s *memStore) available(id uint64) uint32 {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.rooms[id].AvailableRooms
}

func (s *memStore) status(id uint64) model.BookingStatus {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.bookings[id].Status
}

func (s *memStore) bookingCount() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.bookings)
}

func (s *memStore) rowLock(key string) *sync.Mutex {
    s.mu.Lock()
    defer s.mu.Unlock()
    m, ok := s.locks[key]
    if !ok {
        m = &sync.Mutex{}
        s.locks[key] = m
    }
    return m
}

func (s *memStore) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
    s.mu.Lock()
    s.begins++
    s.mu.Unlock()
    return &memTx{s: s, held: map[string]*sync.Mutex{}}, nil
}

// ListAll, GetByIDs, GetByID and List make memStore the read side too.

func (s *memStore) ListAll(ctx context.Context) ([]model.Room, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.Room{}
    for _, rm := range s.rooms {
        out = append(out, *rm)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *memStore) GetByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.Room{}
    for _, id := range ids {
        if rm, ok := s.rooms[id]; ok {
            out = append(out, *rm)
        }
    }
    return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return nil, uow.ErrNotFound
    }
    return s.detail(b), nil
}

func (s *memStore) detail(b *model.Booking) *model.BookingDetail {
    d := &model.BookingDetail{Booking: *b, Lines: []model.BookingLineDetail{}}
    for _, l := range s.lines[b.ID] {
        rm := s.rooms[l.RoomID]
        d.Lines = append(d.Lines, model.BookingLineDetail{
            RoomID: l.RoomID, Quantity: l.Quantity, PriceAtBooking: l.PriceAtBooking,
            Title: rm.Title, Category: rm.Category,
        })
    }
    return d
}

func (s *memStore) List(ctx context.Context, f model.BookingFilter) ([]model.BookingDetail, int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ids := []uint64{}
    for id, b := range s.bookings {
        if f.Status == "" || b.Status == f.Status {
            ids = append(ids, id)
        }
    }
    sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
    out := []model.BookingDetail{}
    for i := f.Offset; i < len(ids) && i < f.Offset+f.Limit; i++ {
        out = append(out, *s.detail(s.bookings[ids[i]]))
    }
    return out, len(ids), nil
}

type memTx struct {
    s    *memStore
    held map[string]*sync.Mutex
    undo []func()
    done bool
}

func (t *memTx) lock(key string) {
    if _, ok := t.held[key]; ok {
        return
    }
    m := t.s.rowLock(key)
    m.Lock()
    t.held[key] = m
}

func (t *memTx) release() {
    for _, m := range t.held {
        m.Unlock()
    }
    t.held = map[string]*sync.Mutex{}
    t.done = true
}

func (t *memTx) Rooms() uow.RoomLocker       { return memRooms{t} }
func (t *memTx) Bookings() uow.BookingWriter { return memBookings{t} }

func (t *memTx) Commit(ctx context.Context) error {
    if t.done {
        return fmt.Errorf("transaction already closed")
    }
    t.undo = nil
    t.release()
    return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
    if t.done {
        return nil
    }
    t.s.mu.Lock()
    for i := len(t.undo) - 1; i >= 0; i-- {
        t.undo[i]()
    }
    t.s.mu.Unlock()
    t.undo = nil
    t.release()
    return nil
}

type memRooms struct{ t *memTx }

func (r memRooms) LockByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
    sorted := append([]uint64(nil), ids...)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
    out := []model.Room{}
    for _, id := range sorted {
        r.t.s.mu.Lock()
        _, ok := r.t.s.rooms[id]
        r.t.s.mu.Unlock()
        if !ok {
            continue
        }
        r.t.lock(fmt.Sprintf("room:%d", id))
        r.t.s.mu.Lock()
        out = append(out, *r.t.s.rooms[id])
        r.t.s.mu.Unlock()
    }
    return out, nil
}

func (r memRooms) DecrementAvailable(ctx context.Context, id uint64, qty uint32) (bool, error) {
    r.t.lock(fmt.Sprintf("room:%d", id))
    s := r.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    rm, ok := s.rooms[id]
    if !ok || rm.AvailableRooms < qty {
        return false, nil
    }
    rm.AvailableRooms -= qty
    r.t.undo = append(r.t.undo, func() { rm.AvailableRooms += qty })
    return true, nil
}

func (r memRooms) IncrementAvailable(ctx context.Context, id uint64, qty uint32) error {
    r.t.lock(fmt.Sprintf("room:%d", id))
    s := r.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    rm, ok := s.rooms[id]
    if !ok {
        return nil
    }
    rm.AvailableRooms += qty
    r.t.undo = append(r.t.undo, func() { rm.AvailableRooms -= qty })
    return nil
}

type memBookings struct{ t *memTx }

func (b memBookings) Create(ctx context.Context, bk *model.Booking) error {
    s := b.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    if len(s.createErrs) > 0 {
        err := s.createErrs[0]
        s.createErrs = s.createErrs[1:]
        if err != nil {
            return err
        }
    }
    if _, dup := s.refs[bk.Reference]; dup {
        return fmt.Errorf("%w: reference %s", uow.ErrDuplicateKey, bk.Reference)
    }
    s.nextID++
    bk.ID = s.nextID
    cp := *bk
    s.bookings[bk.ID] = &cp
    s.refs[bk.Reference] = bk.ID
    id, ref := bk.ID, bk.Reference
    b.t.undo = append(b.t.undo, func() {
        delete(s.bookings, id)
        delete(s.refs, ref)
    })
    return nil
}

func (b memBookings) CreateLines(ctx context.Context, lines []model.BookingRoomLine) error {
    s := b.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, l := range lines {
        id := l.BookingID
        s.lines[id] = append(s.lines[id], l)
        b.t.undo = append(b.t.undo, func() { delete(s.lines, id) })
    }
    return nil
}

func (b memBookings) LockStatus(ctx context.Context, id uint64) (model.BookingStatus, error) {
    s := b.t.s
    s.mu.Lock()
    _, ok := s.bookings[id]
    s.mu.Unlock()
    if !ok {
        return "", uow.ErrNotFound
    }
    b.t.lock(fmt.Sprintf("booking:%d", id))
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.bookings[id].Status, nil
}

func (b memBookings) Lines(ctx context.Context, id uint64) ([]model.BookingRoomLine, error) {
    s := b.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    return append([]model.BookingRoomLine(nil), s.lines[id]...), nil
}

func (b memBookings) UpdateStatus(ctx context.Context, id uint64, st model.BookingStatus) error {
    s := b.t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    bk := s.bookings[id]
    old := bk.Status
    bk.Status = st
    b.t.undo = append(b.t.undo, func() { bk.Status = old })
    return nil
}

// recordingNotifier captures confirmations and fails with err when set.
type recordingNotifier struct {
    mu   sync.Mutex
    sent []model.BookingDetail
    err  error
}

func (n *recordingNotifier) SendBookingConfirmation(ctx context.Context, b *model.BookingDetail) error {
    n.mu.Lock()
    defer n.mu.Unlock()
    n.sent = append(n.sent, *b)
    return n.err
}

func (n *recordingNotifier) count() int {
    n.mu.Lock()
    defer n.mu.Unlock()
    return len(n.sent)
}
