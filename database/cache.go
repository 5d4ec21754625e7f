package database

import (
	"log"

	"api/config"

	"github.com/redis/go-redis/v9"
)

// Cache is the optional Redis client used to serve aggregated rating data.
// It stays nil when REDIS_ADDRESS is not configured and callers fall back to
// the database on every read.
var Cache *redis.Client

// InitCache initializes the Redis connection if an address is configured
func InitCache() {
	if config.RedisAddress == "" {
		log.Println("Redis not configured, aggregation cache disabled")
		return
	}

	Cache = redis.NewClient(&redis.Options{
		Addr: config.RedisAddress,
	})
	log.Println("Aggregation cache enabled: ", config.RedisAddress)
}
