package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/config"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/utils"
)

const secret = "test-secret"

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	return e
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(secret, id, id+"@example.com", role, 5)
	require.NoError(t, err)
	return at.Token
}

func TestGuard(t *testing.T) {
	e := newEcho()
	e.Use(Authenticate(secret, nil))
	ok := func(c echo.Context) error { return c.JSON(http.StatusOK, IdentityFrom(c)) }
	e.GET("/public", ok, Guard(gate.Public))
	e.GET("/member", ok, Guard(gate.Member))
	e.GET("/admin", ok, Guard(gate.Admin))

	member := token(t, "m1", model.RoleMember)
	admin := token(t, "a1", model.RoleAdmin)

	tests := []struct {
		path, token string
		status      int
		code        string
	}{
		{"/public", "", http.StatusOK, ""},
		{"/member", "", http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"/admin", "", http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"/member", member, http.StatusOK, ""},
		{"/admin", member, http.StatusForbidden, apperr.CodeForbidden},
		{"/admin", admin, http.StatusOK, ""},
		{"/public", "garbage", http.StatusUnauthorized, apperr.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.token, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.path, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}

	rec := do(e, http.MethodGet, "/admin", admin)
	assert.Contains(t, rec.Body.String(), `"account_id":"a1"`)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}

type roles map[string]bool

func (r roles) Me(_ context.Context, who session.Identity) (session.Identity, error) {
	admin, ok := r[who.AccountID]
	if !ok {
		return session.Identity{}, apperr.ErrUnauthenticated
	}
	who.IsAdmin = admin
	return who, nil
}

func TestAuthenticateRechecksAdminRole(t *testing.T) {
	e := newEcho()
	e.Use(Authenticate(secret, roles{"a1": true, "a2": false}))
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Guard(gate.Admin))

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/admin", token(t, "a1", model.RoleAdmin)).Code)

	rec := do(e, http.MethodGet, "/admin", token(t, "a2", model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeForbidden, decodeError(t, rec).Code)

	rec = do(e, http.MethodGet, "/admin", token(t, "gone", model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsOtherSecret(t *testing.T) {
	e := newEcho()
	e.Use(Authenticate("another-secret", nil))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := do(e, http.MethodGet, "/", token(t, "m1", model.RoleMember))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic Zm9vOmJhcg==")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestErrorHandlerMapsTaxonomy(t *testing.T) {
	e := newEcho()
	e.GET("/applied", func(echo.Context) error { return apperr.ErrAlreadyApplied })
	e.GET("/invalid", func(echo.Context) error { return apperr.Invalid("title", "is required") })
	e.GET("/boom", func(echo.Context) error { return assert.AnError })

	rec := do(e, http.MethodGet, "/applied", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperr.CodeAlreadyApplied, body.Code)
	assert.ErrorIs(t, apperr.FromCode(body.Code, body.Error), apperr.ErrAlreadyApplied)

	rec = do(e, http.MethodGet, "/invalid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"title": "is required"}, decodeError(t, rec).Fields)

	rec = do(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decodeError(t, rec)
	assert.Equal(t, apperr.CodeInternal, body.Code)
	assert.NotContains(t, body.Error, assert.AnError.Error())

	rec = do(e, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.CodeNotFound, decodeError(t, rec).Code)
}

func rateCfg() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucket(t *testing.T) {
	_, rdb := newRedis(t)
	e := newEcho()
	e.POST("/v1/auth/signin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(rateCfg(), rdb, zerolog.Nop()))

	for i := range 2 {
		rec := do(e, http.MethodPost, "/v1/auth/signin", "")
		require.Equal(t, http.StatusNoContent, rec.Code, "request %d", i)
	}
	rec := do(e, http.MethodPost, "/v1/auth/signin", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, CodeRateLimited, decodeError(t, rec).Code)
}

func TestTokenBucketFailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	e := newEcho()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(rateCfg(), rdb, zerolog.Nop()))
	for range 3 {
		assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/x", "").Code)
	}

	e = newEcho()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(rateCfg(), nil, zerolog.Nop()))
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/x", "").Code)
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "catalog",
	}
}

func TestRedisCacheAndPurge(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheCfg()
	log := zerolog.Nop()
	title := "first"
	calls := 0

	e := newEcho()
	cached := e.Group("", NewRedisCache(cfg, rdb, log))
	cached.GET("/v1/sprints/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id"), "title": title})
	})
	cached.GET("/v1/missing", func(echo.Context) error { return apperr.ErrNotFound })
	e.PATCH("/v1/admin/sprints/:id", func(c echo.Context) error {
		title = "second"
		return c.NoContent(http.StatusOK)
	}, PurgeOnWrite(cfg, rdb, log))

	rec := do(e, http.MethodGet, "/v1/sprints/a", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = do(e, http.MethodGet, "/v1/sprints/a", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"title":"first"`)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")
	assert.Equal(t, 1, calls)

	rec = do(e, http.MethodGet, "/v1/sprints/b", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"id":"b"`)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/missing", "").Code)
	assert.NotEqual(t, "HIT", do(e, http.MethodGet, "/v1/missing", "").Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, do(e, http.MethodPatch, "/v1/admin/sprints/a", "").Code)
	rec = do(e, http.MethodGet, "/v1/sprints/a", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"title":"second"`)
}

func TestRedisCacheHitKeepsCORSSingleValued(t *testing.T) {
	_, rdb := newRedis(t)
	e := newEcho()
	e.Use(echomw.RequestID(), echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))
	e.GET("/v1/events", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{"meetup"})
	}, NewRedisCache(cacheCfg(), rdb, zerolog.Nop()))

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	first := get()
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get()
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))

	assert.Equal(t, []string{"*"}, second.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Len(t, second.Header().Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), second.Header().Get(echo.HeaderXRequestID))
	assert.Len(t, second.Header().Values(echo.HeaderVary), len(first.Header().Values(echo.HeaderVary)))
	assert.Equal(t, []string{echo.MIMEApplicationJSON}, second.Header().Values(echo.HeaderContentType))
	assert.JSONEq(t, `["meetup"]`, second.Body.String())
}

func TestPurgeCacheOnlyTouchesPrefix(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("catalog:1", "x"))
	require.NoError(t, mr.Set("catalog:2", "x"))
	require.NoError(t, mr.Set("rl:ip:1", "x"))

	n, err := PurgeCache(t.Context(), rdb, "catalog")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("rl:ip:1"))
	assert.False(t, mr.Exists("catalog:1"))
}
