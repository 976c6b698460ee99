package player

import (
	"context"

	"github.com/rs/zerolog/log"
)

// OpenStore returns a migrated PostgresStore for dsn, or a MemoryStore when
// dsn is empty. The returned close func is never nil when err is nil.
func OpenStore(ctx context.Context, dsn string) (Store, func() error, error) {
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, players are kept in memory")
		return NewMemoryStore(), func() error { return nil }, nil
	}
	pg, err := OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}
