package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/asquebay/bird-events-service/internal/model"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI подменяет ресурс /birds
// если block не nil, ListBirds ждёт его закрытия или отмены контекста
type fakeAPI struct {
	mu        sync.Mutex
	birds     []model.Bird
	listErr   error
	createErr error
	nextID    int64
	block     chan struct{}
	created   []model.NewBird
}

func (f *fakeAPI) ListBirds(ctx context.Context) ([]model.Bird, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Bird{}, f.birds...), nil
}

func (f *fakeAPI) CreateBird(_ context.Context, b model.NewBird) (model.Bird, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, b)
	if f.createErr != nil {
		return model.Bird{}, f.createErr
	}
	f.nextID++
	return b.WithID(f.nextID), nil
}
