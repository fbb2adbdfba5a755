package storage

import (
	"context"
	"fmt"

	"github.com/asquebay/bird-events-service/internal/config"
	"github.com/asquebay/bird-events-service/internal/repository/postgres"
	"github.com/asquebay/bird-events-service/internal/repository/sqlite"
	"github.com/asquebay/bird-events-service/internal/service"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// Open подключается к хранилищу, выбранному в конфиге, и создаёт схему
// возвращает репозиторий и функцию, закрывающую соединение
func Open(ctx context.Context, cfg *config.Config) (service.BirdRepository, func(), error) {
	const op = "storage.Open"

	var (
		repo interface {
			service.BirdRepository
			migrator
		}
		closeFn func()
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		repo, closeFn = postgres.NewBirdRepository(pool), pool.Close
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		repo, closeFn = sqlite.NewBirdRepository(db), func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	if err := repo.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return repo, closeFn, nil
}
