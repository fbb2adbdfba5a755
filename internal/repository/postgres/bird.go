package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS birds (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL DEFAULT '',
		species TEXT NOT NULL DEFAULT '',
		image   TEXT NOT NULL DEFAULT ''
	)
`

var birdColumns = []string{"id", "name", "species", "image"}

// BirdRepository инкапсулирует логику работы с птицами в БД
type BirdRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewBirdRepository создает новый экземпляр репозитория
func NewBirdRepository(db *pgxpool.Pool) *BirdRepository {
	return &BirdRepository{
		db: db,
		// использую плейсхолдеры в стиле PostgreSQL ($1, $2, $3,...)
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Migrate создаёт таблицу birds, если её ещё нет
func (r *BirdRepository) Migrate(ctx context.Context) error {
	const op = "repository.postgres.bird.Migrate"

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: failed to create birds table: %w", op, err)
	}
	return nil
}

// CreateBird сохраняет птицу и возвращает её вместе с выданным ID
func (r *BirdRepository) CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error) {
	const op = "repository.postgres.bird.CreateBird"

	id, err := r.insert(ctx, r.db, bird)
	if err != nil {
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}

	return bird.WithID(id), nil
}

// GetAllBirds извлекает всех птиц в порядке их создания
func (r *BirdRepository) GetAllBirds(ctx context.Context) ([]model.Bird, error) {
	const op = "repository.postgres.bird.GetAllBirds"

	sql, args, err := r.sq.Select(birdColumns...).From("birds").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query birds: %w", op, err)
	}

	birds, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Bird])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to scan bird rows: %w", op, err)
	}

	if birds == nil {
		return []model.Bird{}, nil // нет птиц — возвращаем пустой слайс
	}
	return birds, nil
}

// GetBirdByID извлекает одну птицу по её ID
func (r *BirdRepository) GetBirdByID(ctx context.Context, id int64) (model.Bird, error) {
	const op = "repository.postgres.bird.GetBirdByID"

	sql, args, err := r.sq.Select(birdColumns...).From("birds").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Bird{}, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return model.Bird{}, fmt.Errorf("%s: failed to query bird: %w", op, err)
	}

	bird, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Bird])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Bird{}, fmt.Errorf("%s: %w", op, repository.ErrBirdNotFound)
		}
		return model.Bird{}, fmt.Errorf("%s: failed to scan bird row: %w", op, err)
	}

	return bird, nil
}

// ReplaceAll удаляет всех птиц и вставляет переданных в рамках одной транзакции
// используется для заполнения базы начальными данными
func (r *BirdRepository) ReplaceAll(ctx context.Context, birds []model.NewBird) ([]model.Bird, error) {
	const op = "repository.postgres.bird.ReplaceAll"

	// начинаем транзакцию
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	// гарантируем откат транзакции в случае любой ошибки
	defer tx.Rollback(ctx)

	// 1. Удаляем всё, что было
	sql, args, err := r.sq.Delete("birds").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to delete birds: %w", op, err)
	}

	// 2. Вставляем новых птиц по одной, чтобы получить их ID
	created := make([]model.Bird, 0, len(birds))
	for _, bird := range birds {
		id, err := r.insert(ctx, tx, bird)
		if err != nil {
			return nil, fmt.Errorf("%s: bird %q: %w", op, bird.Name, err)
		}
		created = append(created, bird.WithID(id))
	}

	// если все прошло успешно, подтверждаем транзакцию
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return created, nil
}

// querier — общее между пулом и транзакцией
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *BirdRepository) insert(ctx context.Context, q querier, bird model.NewBird) (int64, error) {
	sql, args, err := r.sq.Insert("birds").
		Columns("name", "species", "image").
		Values(bird.Name, bird.Species, bird.Image).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert bird: %w", err)
	}
	return id, nil
}
