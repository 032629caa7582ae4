package main

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/cajero/internal/config"
	"github.com/MrJamesThe3rd/cajero/internal/database"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/file"
	"github.com/MrJamesThe3rd/cajero/internal/storage/memory"
	"github.com/MrJamesThe3rd/cajero/internal/storage/postgres"
	"github.com/MrJamesThe3rd/cajero/internal/storage/redis"
)

// openStore builds the session store for cfg.Store.Driver. The returned
// func releases any connection the backend holds.
func openStore(ctx context.Context, cfg *config.Config) (*storage.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case "memory":
		return storage.New(memory.New()), noop, nil

	case "file":
		b, err := file.New(cfg.Store.Dir, cfg.Store.Profile)
		if err != nil {
			return nil, nil, err
		}

		return storage.New(b), func() { b.Close() }, nil

	case "postgres":
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		b := postgres.New(db, cfg.Store.Profile)
		if err := b.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		return storage.New(b), func() { db.Close() }, nil

	case "redis":
		rdb, err := redis.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}

		return storage.New(redis.New(rdb, cfg.Store.Prefix)), func() { rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
