package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/asquebay/bird-events-service/internal/lib/logger"
	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/repository"
	"github.com/asquebay/bird-events-service/internal/repository/cache"

	"github.com/google/go-cmp/cmp"
)

// fakeRepo — хранилище в памяти со счётчиком обращений
type fakeRepo struct {
	mu      sync.Mutex
	birds   []model.Bird
	nextID  int64
	err     error
	getAlls int
	getByID int
}

func (r *fakeRepo) CreateBird(_ context.Context, b model.NewBird) (model.Bird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return model.Bird{}, r.err
	}
	r.nextID++
	bird := b.WithID(r.nextID)
	r.birds = append(r.birds, bird)
	return bird, nil
}

func (r *fakeRepo) GetAllBirds(context.Context) ([]model.Bird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getAlls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]model.Bird{}, r.birds...), nil
}

func (r *fakeRepo) GetBirdByID(_ context.Context, id int64) (model.Bird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByID++
	for _, b := range r.birds {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Bird{}, fmt.Errorf("fake: %w", repository.ErrBirdNotFound)
}

func (r *fakeRepo) ReplaceAll(_ context.Context, birds []model.NewBird) ([]model.Bird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.birds = nil
	for _, b := range birds {
		r.nextID++
		r.birds = append(r.birds, b.WithID(r.nextID))
	}
	return append([]model.Bird{}, r.birds...), nil
}

type fakePublisher struct {
	published []model.Bird
	err       error
}

func (p *fakePublisher) PublishBirdCreated(_ context.Context, b model.Bird) error {
	p.published = append(p.published, b)
	return p.err
}

func TestCreateBirdStoresCachesAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	c := cache.NewBirdCache()
	pub := &fakePublisher{}
	svc := NewBirdService(repo, c, pub, logger.Discard())

	bird, err := svc.CreateBird(context.Background(), model.NewBird{Name: "Tux", Species: "Penguin", Image: "u2"})
	if err != nil {
		t.Fatalf("CreateBird: %v", err)
	}

	want := model.Bird{ID: 1, Name: "Tux", Species: "Penguin", Image: "u2"}
	if diff := cmp.Diff(want, bird); diff != "" {
		t.Errorf("created bird mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Get(1); !ok {
		t.Error("expected created bird in cache")
	}
	if diff := cmp.Diff([]model.Bird{want}, pub.published); diff != "" {
		t.Errorf("published events mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateBirdPublishFailureIsNotReturned(t *testing.T) {
	svc := NewBirdService(&fakeRepo{}, cache.NewBirdCache(), &fakePublisher{err: errors.New("broker down")}, logger.Discard())

	if _, err := svc.CreateBird(context.Background(), model.NewBird{Name: "Tux"}); err != nil {
		t.Fatalf("expected publish failure to be swallowed, got %v", err)
	}
}

func TestCreateBirdRepositoryFailure(t *testing.T) {
	repoErr := errors.New("db down")
	c := cache.NewBirdCache()
	pub := &fakePublisher{}
	svc := NewBirdService(&fakeRepo{err: repoErr}, c, pub, logger.Discard())

	_, err := svc.CreateBird(context.Background(), model.NewBird{Name: "Tux"})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if len(c.All()) != 0 || len(pub.published) != 0 {
		t.Error("failed create must not touch cache or publish")
	}
}

func TestListBirdsReadsRepositoryEveryTime(t *testing.T) {
	repo := &fakeRepo{}
	c := cache.NewBirdCache()
	svc := NewBirdService(repo, c, nil, logger.Discard())
	ctx := context.Background()

	if _, err := svc.CreateBird(ctx, model.NewBird{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBird(ctx, model.NewBird{Name: "B"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		birds, err := svc.ListBirds(ctx)
		if err != nil {
			t.Fatalf("ListBirds: %v", err)
		}
		if len(birds) != 2 || birds[0].Name != "A" || birds[1].Name != "B" {
			t.Fatalf("unexpected birds: %v", birds)
		}
	}
	if repo.getAlls != 3 {
		t.Errorf("expected a repository read per call, got %d", repo.getAlls)
	}

	// строку удалили в обход сервиса: следующий список и кэш это видят
	repo.mu.Lock()
	repo.birds = repo.birds[1:]
	repo.mu.Unlock()

	birds, err := svc.ListBirds(ctx)
	if err != nil {
		t.Fatalf("ListBirds: %v", err)
	}
	if len(birds) != 1 || birds[0].Name != "B" {
		t.Fatalf("unexpected birds after external delete: %v", birds)
	}
	if _, ok := c.Get(1); ok {
		t.Error("deleted bird must leave the cache")
	}
}

func TestListBirdsFallsBackToCache(t *testing.T) {
	repo := &fakeRepo{birds: []model.Bird{{ID: 1, Name: "Koko"}}, nextID: 1}
	svc := NewBirdService(repo, cache.NewBirdCache(), nil, logger.Discard())
	ctx := context.Background()

	// пока кэш ни разу не заполнялся, ошибка БД уходит наверх
	repo.err = errors.New("db down")
	if _, err := svc.ListBirds(ctx); err == nil {
		t.Fatal("expected error with a cold cache")
	}

	repo.err = nil
	if _, err := svc.ListBirds(ctx); err != nil {
		t.Fatalf("ListBirds: %v", err)
	}

	repo.err = errors.New("db down")
	birds, err := svc.ListBirds(ctx)
	if err != nil {
		t.Fatalf("expected cached birds, got %v", err)
	}
	if diff := cmp.Diff([]model.Bird{{ID: 1, Name: "Koko"}}, birds); diff != "" {
		t.Errorf("cached birds mismatch (-want +got):\n%s", diff)
	}
}

func TestGetBird(t *testing.T) {
	repo := &fakeRepo{birds: []model.Bird{{ID: 7, Name: "Koko"}}, nextID: 7}
	svc := NewBirdService(repo, cache.NewBirdCache(), nil, logger.Discard())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		bird, err := svc.GetBird(ctx, 7)
		if err != nil {
			t.Fatalf("GetBird: %v", err)
		}
		if bird.Name != "Koko" {
			t.Fatalf("unexpected bird %v", bird)
		}
	}
	if repo.getByID != 1 {
		t.Errorf("second lookup should hit the cache, repo calls = %d", repo.getByID)
	}

	if _, err := svc.GetBird(ctx, 99); !errors.Is(err, repository.ErrBirdNotFound) {
		t.Errorf("expected ErrBirdNotFound, got %v", err)
	}
}

func TestRestoreCacheAndSeed(t *testing.T) {
	repo := &fakeRepo{birds: []model.Bird{{ID: 1, Name: "Old"}}, nextID: 1}
	c := cache.NewBirdCache()
	svc := NewBirdService(repo, c, nil, logger.Discard())
	ctx := context.Background()

	if err := svc.RestoreCache(ctx); err != nil {
		t.Fatalf("RestoreCache: %v", err)
	}
	if len(c.All()) != 1 {
		t.Fatalf("expected 1 cached bird, got %d", len(c.All()))
	}

	seeded, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(seeded) != len(SeedBirds) {
		t.Fatalf("expected %d seeded birds, got %d", len(SeedBirds), len(seeded))
	}

	listed, err := svc.ListBirds(ctx)
	if err != nil {
		t.Fatalf("ListBirds: %v", err)
	}
	if diff := cmp.Diff(seeded, listed); diff != "" {
		t.Errorf("list after seed mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Get(1); ok {
		t.Error("old bird must be gone from cache after seeding")
	}
}

func TestRestoreCacheFailure(t *testing.T) {
	repoErr := errors.New("db down")
	svc := NewBirdService(&fakeRepo{err: repoErr}, cache.NewBirdCache(), nil, logger.Discard())

	if err := svc.RestoreCache(context.Background()); !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
