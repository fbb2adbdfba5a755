package service

import (
	"context"

	"github.com/asquebay/bird-events-service/internal/model"
)

// BirdRepository определяет контракт для хранилища птиц в БД
// реализуется драйверами postgres и sqlite
type BirdRepository interface {
	CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error)
	GetAllBirds(ctx context.Context) ([]model.Bird, error)
	GetBirdByID(ctx context.Context, id int64) (model.Bird, error)
	ReplaceAll(ctx context.Context, birds []model.NewBird) ([]model.Bird, error)
}

// BirdCache определяет контракт для in-memory кэша птиц
type BirdCache interface {
	Set(bird model.Bird)
	Get(id int64) (model.Bird, bool)
	All() []model.Bird
	Replace(birds []model.Bird)
}

// EventPublisher публикует доменные события о птицах (например, в кафку)
type EventPublisher interface {
	PublishBirdCreated(ctx context.Context, bird model.Bird) error
}
