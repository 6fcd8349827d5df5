package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/nextdir/internal/config"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/redis"
	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/MrSnakeDoc/nextdir/internal/store/badger"
	"github.com/MrSnakeDoc/nextdir/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/nextdir/internal/store/redis"
	"github.com/MrSnakeDoc/nextdir/internal/store/sqlstore"
)

// openStore builds the record store selected by NEXTDIR_STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.RecordStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on restart")
		return memory.New(), nil

	case config.DriverRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case config.DriverPostgres:
		return sqlstore.OpenPostgres(cfg.DatabaseDSN)

	case config.DriverSQLite:
		log.Info("opening sqlite database", logger.String("path", cfg.SQLitePath))
		return sqlstore.OpenSQLite(cfg.SQLitePath)

	case config.DriverBadger:
		log.Info("opening badger database", logger.String("path", cfg.BadgerPath))
		return badger.Open(cfg.BadgerPath)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
