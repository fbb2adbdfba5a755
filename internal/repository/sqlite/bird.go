package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/repository"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const schema = `
	CREATE TABLE IF NOT EXISTS birds (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		name    TEXT NOT NULL DEFAULT '',
		species TEXT NOT NULL DEFAULT '',
		image   TEXT NOT NULL DEFAULT ''
	)
`

// New открывает (и при необходимости создаёт) файл базы SQLite
func New(path string) (*sql.DB, error) {
	const op = "repository.sqlite.New"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: failed to create dirs: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open sqlite: %w", op, err)
	}
	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return db, nil
}

// BirdRepository хранит птиц во встроенной базе SQLite
type BirdRepository struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewBirdRepository создает новый экземпляр репозитория
func NewBirdRepository(db *sql.DB) *BirdRepository {
	return &BirdRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Migrate создаёт таблицу birds, если её ещё нет
func (r *BirdRepository) Migrate(ctx context.Context) error {
	const op = "repository.sqlite.bird.Migrate"

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: failed to create birds table: %w", op, err)
	}
	return nil
}

// CreateBird сохраняет птицу и возвращает её вместе с выданным ID
func (r *BirdRepository) CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error) {
	const op = "repository.sqlite.bird.CreateBird"

	id, err := r.insert(ctx, r.db, bird)
	if err != nil {
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}
	return bird.WithID(id), nil
}

// GetAllBirds извлекает всех птиц в порядке их создания
func (r *BirdRepository) GetAllBirds(ctx context.Context) ([]model.Bird, error) {
	const op = "repository.sqlite.bird.GetAllBirds"

	query, args, err := r.sq.Select("id", "name", "species", "image").From("birds").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query birds: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	birds := []model.Bird{}
	for rows.Next() {
		var b model.Bird
		if err := rows.Scan(&b.ID, &b.Name, &b.Species, &b.Image); err != nil {
			return nil, fmt.Errorf("%s: failed to scan bird row: %w", op, err)
		}
		birds = append(birds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to iterate bird rows: %w", op, err)
	}

	return birds, nil
}

// GetBirdByID извлекает одну птицу по её ID
func (r *BirdRepository) GetBirdByID(ctx context.Context, id int64) (model.Bird, error) {
	const op = "repository.sqlite.bird.GetBirdByID"

	query, args, err := r.sq.Select("id", "name", "species", "image").
		From("birds").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Bird{}, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var b model.Bird
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.Name, &b.Species, &b.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Bird{}, fmt.Errorf("%s: %w", op, repository.ErrBirdNotFound)
		}
		return model.Bird{}, fmt.Errorf("%s: failed to query bird: %w", op, err)
	}
	return b, nil
}

// ReplaceAll удаляет всех птиц и вставляет переданных в рамках одной транзакции
func (r *BirdRepository) ReplaceAll(ctx context.Context, birds []model.NewBird) (_ []model.Bird, retErr error) {
	const op = "repository.sqlite.bird.ReplaceAll"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := r.sq.Delete("birds").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to delete birds: %w", op, err)
	}

	created := make([]model.Bird, 0, len(birds))
	for _, bird := range birds {
		id, err := r.insert(ctx, tx, bird)
		if err != nil {
			return nil, fmt.Errorf("%s: bird %q: %w", op, bird.Name, err)
		}
		created = append(created, bird.WithID(id))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return created, nil
}

// execer — общее между *sql.DB и *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *BirdRepository) insert(ctx context.Context, e execer, bird model.NewBird) (int64, error) {
	query, args, err := r.sq.Insert("birds").
		Columns("name", "species", "image").
		Values(bird.Name, bird.Species, bird.Image).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bird: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}
