package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

type roomImages struct {
    Main    string   `json:"main"`
    Gallery []string `json:"gallery"`
}

type roomView struct {
    ID             uint64        `json:"id"`
    Title          string        `json:"title"`
    Category       string        `json:"category"`
    Description    string        `json:"description"`
    Price          pricing.Cents `json:"price"`
    Size           string        `json:"size"`
    Capacity       uint32        `json:"capacity"`
    Amenities      []string      `json:"amenities"`
    Images         roomImages    `json:"images"`
    AvailableRooms uint32        `json:"available_rooms"`
}

func newRoomView(r model.Room) roomView {
    amenities, gallery := r.Amenities, r.Gallery
    if amenities == nil {
        amenities = []string{}
    }
    if gallery == nil {
        gallery = []string{}
    }
    return roomView{
        ID:             r.ID,
        Title:          r.Title,
        Category:       r.Category,
        Description:    r.Description,
        Price:          r.Price,
        Size:           r.Size,
        Capacity:       r.Capacity,
        Amenities:      amenities,
        Images:         roomImages{Main: r.MainImage, Gallery: gallery},
        AvailableRooms: r.AvailableRooms,
    }
}

// parseIDs reads a comma separated list of positive ids.
func parseIDs(raw string) ([]uint64, bool) {
    if strings.TrimSpace(raw) == "" {
        return nil, true
    }
    parts := strings.Split(raw, ",")
    ids := make([]uint64, 0, len(parts))
    for _, p := range parts {
        n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
        if err != nil || n == 0 {
            return nil, false
        }
        ids = append(ids, n)
    }
    return ids, true
}

// ListRooms handles GET /api/rooms with an optional ids=1,2 filter.
func (h *BookingHandler) ListRooms(c echo.Context) error {
    ids, ok := parseIDs(c.QueryParam("ids"))
    if !ok {
        return badRequest(c, "ids must be a comma separated list of positive integers", nil)
    }
    rooms, err := h.svc.ListRooms(c.Request().Context(), ids)
    if err != nil {
        return h.errs.write(c, err, "failed to fetch rooms")
    }
    out := make([]roomView, len(rooms))
    for i, r := range rooms {
        out[i] = newRoomView(r)
    }
    return c.JSON(http.StatusOK, out)
}
