package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/controlapag/controlapag-api/config"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: config.Cfg.RedisAddr,
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// MarkEventProcessed records a webhook event id and reports whether this
// delivery is the first one. Keys expire after a day; the gateway stops
// retrying well before that.
func MarkEventProcessed(eventID string) (bool, error) {
	return Client.SetNX(Ctx, "webhook:event:"+eventID, 1, 24*time.Hour).Result()
}
