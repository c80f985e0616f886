package main

import (
	"context"

	"tubelens/internal/platform/config"
	"tubelens/internal/platform/logger"
	"tubelens/internal/platform/store"
)

// openStore brings up the platform store from the same env surface the API
// reads, tagged with the cli role
func openStore(ctx context.Context) (*store.Store, error) {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	return store.Open(ctx, store.Config{
		AppName: "tubelens",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayString("DBURL", "") != "",
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "cli",
		},
	}, store.WithLogger(*logger.Get()))
}
