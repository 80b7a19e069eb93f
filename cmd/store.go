package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/syndicate-prices/internal/pricecache"
)

func initStore(ctx context.Context) (pricecache.Store, error) {
	switch cfg.Cache.Driver {
	case "file":
		return pricecache.NewFileStore(cfg.Cache.Path), nil
	case "sqlite":
		s, err := pricecache.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := pricecache.NewPostgres(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}
