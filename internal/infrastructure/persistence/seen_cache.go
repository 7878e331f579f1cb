package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"car_monitor/internal/domain"
	"car_monitor/pkg/errcodes"
)

// SeenCache — быстрый слой дедупликации поверх redis. База остаётся
// источником истины: промах по кешу перепроверяется в found_listings.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeenCache(client *redis.Client, ttl time.Duration) *SeenCache {
	return &SeenCache{client: client, ttl: ttl}
}

func seenKey(source, externalID string, recipientID int64) string {
	return fmt.Sprintf("seen:%s:%s:%d", source, externalID, recipientID)
}

// Seen сообщает, отмечено ли объявление для получателя.
func (c *SeenCache) Seen(ctx context.Context, source, externalID string, recipientID int64) (bool, error) {
	n, err := c.client.Exists(ctx, seenKey(source, externalID, recipientID)).Result()
	if err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "кеш дедупликации не ответил")
	}

	return n > 0, nil
}

// MarkSeen отмечает объявление показанным получателю.
func (c *SeenCache) MarkSeen(ctx context.Context, source, externalID string, recipientID int64) error {
	err := c.client.Set(ctx, seenKey(source, externalID, recipientID), "1", c.ttl).Err()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "кеш дедупликации не записался")
	}

	return nil
}
