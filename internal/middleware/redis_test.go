package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strconv"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    logtest "github.com/sirupsen/logrus/hooks/test"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return mr, rdb
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
    return rec
}

func TestCache_HitMissAndPurge(t *testing.T) {
    mr, rdb := newRedis(t)
    require.NoError(t, mr.Set("rl:unrelated", "1"))
    log, _ := logtest.NewNullLogger()
    cache := NewCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}, rdb, log)
    require.NotNil(t, cache)

    calls := 0
    e := echo.New()
    e.GET("/api/rooms", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"available_rooms": calls})
    }, cache.Middleware())

    first := serve(e, http.MethodGet, "/api/rooms")
    assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

    second := serve(e, http.MethodGet, "/api/rooms")
    assert.Equal(t, http.StatusOK, second.Code)
    assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
    assert.Equal(t, first.Body.String(), second.Body.String())
    assert.Contains(t, second.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
    assert.Equal(t, 1, calls)

    require.NoError(t, cache.Purge(context.Background()))
    assert.Equal(t, []string{"rl:unrelated"}, mr.Keys())

    third := serve(e, http.MethodGet, "/api/rooms")
    assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"available_rooms": 2}`, third.Body.String())
    assert.Equal(t, 2, calls)
}

func TestCache_SkipsErrorsAndOtherMethods(t *testing.T) {
    mr, rdb := newRedis(t)
    log, _ := logtest.NewNullLogger()
    cache := NewCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}, rdb, log)

    e := echo.New()
    e.GET("/api/rooms", func(c echo.Context) error {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL_ERROR"})
    }, cache.Middleware())
    e.POST("/api/rooms", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, cache.Middleware())

    serve(e, http.MethodGet, "/api/rooms")
    serve(e, http.MethodPost, "/api/rooms")
    assert.Empty(t, mr.Keys())
}

func TestTokenBucket_BlocksWhenEmpty(t *testing.T) {
    mr, rdb := newRedis(t)
    log, _ := logtest.NewNullLogger()
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            2 * time.Hour,
        Prefix:         "rl",
    }
    e := echo.New()
    e.POST("/api/booking", func(c echo.Context) error {
        return c.NoContent(http.StatusCreated)
    }, NewTokenBucket(cfg, rdb, log))

    first := serve(e, http.MethodPost, "/api/booking")
    assert.Equal(t, http.StatusCreated, first.Code)
    assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
    assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

    assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/api/booking").Code)

    blocked := serve(e, http.MethodPost, "/api/booking")
    assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
    assert.Contains(t, blocked.Body.String(), "TOO_MANY_REQUESTS")
    retry, err := strconv.Atoi(blocked.Header().Get("Retry-After"))
    require.NoError(t, err)
    assert.Greater(t, retry, 0)
    assert.LessOrEqual(t, retry, 3600)
    assert.Len(t, mr.Keys(), 1)
}

func TestTokenBucket_RedisDownLetsRequestsThrough(t *testing.T) {
    mr, rdb := newRedis(t)
    log, hook := logtest.NewNullLogger()
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl"}
    e := echo.New()
    e.POST("/api/booking", func(c echo.Context) error {
        return c.NoContent(http.StatusCreated)
    }, NewTokenBucket(cfg, rdb, log))

    mr.Close()
    assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/api/booking").Code)
    assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/api/booking").Code)
    require.NotNil(t, hook.LastEntry())
    assert.Equal(t, "rate limit check skipped", hook.LastEntry().Message)
}
