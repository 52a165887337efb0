package config

import "github.com/redis/go-redis/v9"

func ConnectToRedis(url string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: url})
}
