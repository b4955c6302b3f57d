package config

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

// ConnectRedis connects and sets the global redis client and lock client.
// It gives up after a few attempts so the API can fall back to in-process locks.
func ConnectRedis(ctx context.Context, addr, password string, attempts int) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0, // use default DB
			PoolSize: 100,
		})
		if err = client.Ping(ctx).Err(); err == nil {
			rdb = client
			locker = redislock.New(rdb)
			GetLogger().WithField("addr", addr).Infof("connected to redis (attempt=%d)", attempt)
			return nil
		}
		_ = client.Close()
		if attempt == attempts {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		GetLogger().WithField("addr", addr).Warnf("failed to connect redis (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return err
}
