package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/repository"
)

// BirdService инкапсулирует бизнес-логику работы с птицами
type BirdService struct {
	repo      BirdRepository
	cache     BirdCache
	publisher EventPublisher
	log       *slog.Logger

	// true, когда кэш хотя бы раз заполнялся полной копией таблицы
	warm atomic.Bool
}

// NewBirdService создаёт новый экземпляр сервиса птиц
// publisher может быть nil, тогда события никуда не отправляются
func NewBirdService(repo BirdRepository, cache BirdCache, publisher EventPublisher, log *slog.Logger) *BirdService {
	return &BirdService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// CreateBird сохраняет новую птицу
// сначала в постоянное хранилище (БД), в случае успеха — в кэш,
// после чего публикует событие о создании
func (s *BirdService) CreateBird(ctx context.Context, newBird model.NewBird) (model.Bird, error) {
	const op = "service.BirdService.CreateBird"
	log := s.log.With(slog.String("op", op), slog.String("name", newBird.Name))

	log.Info("attempting to create bird")

	// 1. Сохраняем в БД. Это основной источник правды
	bird, err := s.repo.CreateBird(ctx, newBird)
	if err != nil {
		log.Error("failed to save bird to repository", slog.String("error", err.Error()))
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}

	// 2. Если в БД сохранилось успешно, обновляем кэш
	s.cache.Set(bird)
	log.Info("bird created and cached successfully", slog.Int64("bird_id", bird.ID))

	// 3. Событие не критично: птица уже сохранена
	if s.publisher != nil {
		if err := s.publisher.PublishBirdCreated(ctx, bird); err != nil {
			log.Warn("failed to publish bird created event", slog.String("error", err.Error()))
		}
	}

	return bird, nil
}

// ListBirds возвращает всех птиц в порядке создания
// список всегда читается из БД: её может менять другой процесс (например, birdctl seed),
// прочитанное заменяет содержимое кэша. Если БД недоступна, а кэш уже
// заполнялся целиком, отдаём кэш
func (s *BirdService) ListBirds(ctx context.Context) ([]model.Bird, error) {
	const op = "service.BirdService.ListBirds"
	log := s.log.With(slog.String("op", op))

	birds, err := s.repo.GetAllBirds(ctx)
	if err != nil {
		if s.warm.Load() && ctx.Err() == nil {
			log.Error("failed to get birds from repository, serving cache", slog.String("error", err.Error()))
			return s.cache.All(), nil
		}
		log.Error("failed to get birds from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Replace(birds)
	s.warm.Store(true)

	return birds, nil
}

// GetBird получает птицу по её ID
// сначала ищет в кэше, и только если там нет — обращается к БД
func (s *BirdService) GetBird(ctx context.Context, id int64) (model.Bird, error) {
	const op = "service.BirdService.GetBird"
	log := s.log.With(slog.String("op", op), slog.Int64("bird_id", id))

	// 1. Пытаемся получить из кэша
	bird, found := s.cache.Get(id)
	if found {
		log.Debug("bird found in cache")
		return bird, nil
	}

	// 2. Если в кэше нет, идем в БД
	bird, err := s.repo.GetBirdByID(ctx, id)
	if err != nil {
		// не логируем как ошибку, если просто не найдено
		if !errors.Is(err, repository.ErrBirdNotFound) {
			log.Error("failed to get bird from repository", slog.String("error", err.Error()))
		}
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}

	// 3. Раз уж мы достали птицу из БД, стоит положить её в кэш
	s.cache.Set(bird)
	log.Debug("bird found in repository and now cached")

	return bird, nil
}

// RestoreCache восстанавливает состояние кэша из базы данных при старте
func (s *BirdService) RestoreCache(ctx context.Context) error {
	const op = "service.BirdService.RestoreCache"
	log := s.log.With(slog.String("op", op))

	log.Info("starting cache restoration from database")

	birds, err := s.repo.GetAllBirds(ctx)
	if err != nil {
		log.Error("failed to get all birds from repository", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Replace(birds)
	s.warm.Store(true)

	log.Info("cache restored successfully", slog.Int("birds_count", len(birds)))
	return nil
}

// Seed заменяет содержимое хранилища начальным набором птиц
func (s *BirdService) Seed(ctx context.Context) ([]model.Bird, error) {
	const op = "service.BirdService.Seed"
	log := s.log.With(slog.String("op", op))

	log.Info("deleting existing birds and creating seed birds")

	birds, err := s.repo.ReplaceAll(ctx, SeedBirds)
	if err != nil {
		log.Error("failed to seed repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Replace(birds)
	s.warm.Store(true)

	log.Info("seeding complete", slog.Int("birds_count", len(birds)))
	return birds, nil
}
