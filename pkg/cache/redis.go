package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/academic-calendar-api/pkg/config"
)

const keyPrefix = "calendar"

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// CalendarKey builds a cache key scoped to one calendar, e.g.
// calendar:{id}:term-summary.
func CalendarKey(calendarID string, parts ...string) string {
	segments := append([]string{keyPrefix, calendarID}, parts...)
	return strings.Join(segments, ":")
}

// CalendarPattern matches every cache key under the calendar's parts prefix.
func CalendarPattern(calendarID string, parts ...string) string {
	return CalendarKey(calendarID, append(parts, "*")...)
}
