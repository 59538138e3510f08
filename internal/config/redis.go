package config

// Redis backs two optional concerns: the token bucket on the auth endpoints
// and the response cache in front of the public catalog.  Both degrade to
// no-ops when NewRedisClient returns nil.

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach the Redis server.
//
//	REDIS_ADDR           host:port (default localhost:6379)
//	REDIS_HOST/REDIS_PORT  override REDIS_ADDR when both are set
//	REDIS_PASSWORD       optional password
//	REDIS_DB             database number (default 0)
//	REDIS_TLS            "true" or "1" enables TLS
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
}

func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	tlsEnv := envStr("REDIS_TLS", "")
	return RedisConfig{
		Addr:        addr,
		Password:    envStr("REDIS_PASSWORD", ""),
		DB:          envInt("REDIS_DB", 0),
		TLS:         strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
		DialTimeout: envDur("REDIS_DIAL_TIMEOUT", 2*time.Second),
	}
}

// NewRedisClient connects using cfg and pings the server.  It returns nil
// when the server cannot be reached so callers can run without Redis.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
