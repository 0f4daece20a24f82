package redis

import (
	"context"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

// NewClientFromEnv builds the shared Redis client. Redis is optional here; a
// missing REDIS_ADDR returns (nil, nil) and callers degrade to their SQL
// fallbacks.
func NewClientFromEnv(log *logger.Logger) (*goredis.Client, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		if log != nil {
			log.Info("REDIS_ADDR not set, running without the admission fast path")
		}
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
