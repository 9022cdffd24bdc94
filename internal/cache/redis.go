package cache

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects the package-level client. Chat preferences are an
// optional feature, so an unreachable Redis leaves Client nil instead of
// aborting startup.
func InitRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: failed to connect to Redis at %s, chat preferences disabled: %v", addr, err)
		return
	}
	Client = client
	log.Println("Connected to Redis")
}
