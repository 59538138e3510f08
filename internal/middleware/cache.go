package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/config"
)

// captureWriter copies the response body (up to limit) while forwarding it
// to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	switch remain := cw.limit - cw.size; {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case remain >= int64(len(b)):
		cw.buf.Write(b)
	case remain > 0:
		cw.buf.Write(b[:remain])
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable key under cfg.Prefix.  The concrete URL path
// is used rather than the route pattern so /v1/sprints/a and /v1/sprints/b
// never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	path := r.URL.Path
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", path}
	case "method_route":
		parts = []string{"method", r.Method, "route", path}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", path, "q", query}
	default: // route_query
		parts = []string{"route", path, "q", query}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// perRequestHeader reports whether k is set by middleware running before
// the cache on every request.  Such headers are neither stored nor replayed.
func perRequestHeader(k string) bool {
	k = http.CanonicalHeaderKey(k)
	switch k {
	case echo.HeaderContentLength, echo.HeaderVary, echo.HeaderXRequestID, "X-Cache":
		return true
	}
	return strings.HasPrefix(k, "Access-Control-")
}

// NewRedisCache caches successful responses of the public catalog in Redis,
// headers included, and marks responses with X-Cache HIT or MISS.  Admin
// mutations clear the entries through PurgeOnWrite, so a member never reads
// a catalog older than the last successful edit.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if perRequestHeader(k) {
							continue
						}
						c.Response().Header()[http.CanonicalHeaderKey(k)] = vals
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			for k := range hdr {
				if perRequestHeader(k) {
					delete(hdr, k)
				}
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache store failed")
			}
			return nil
		}
	}
}

// PurgeCache deletes every entry under prefix and reports how many were
// removed.
func PurgeCache(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// PurgeOnWrite clears the catalog cache after a successful mutation.
func PurgeOnWrite(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				return err
			}
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return nil
			}
			n, perr := PurgeCache(context.WithoutCancel(c.Request().Context()), rdb, cfg.Prefix)
			if perr != nil {
				log.Warn().Err(perr).Msg("catalog cache purge failed")
				return nil
			}
			log.Debug().Int("keys", n).Msg("catalog cache purged")
			return nil
		}
	}
}
