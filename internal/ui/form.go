package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asquebay/bird-events-service/internal/model"
)

// Имена полей формы, совпадают с name у input
const (
	FieldName    = "name"
	FieldSpecies = "species"
	FieldImage   = "image"
)

// BirdCreator создаёт птицу на сервере и возвращает её с выданным ID
type BirdCreator interface {
	CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error)
}

// Form — форма новой птицы
// поля не проверяются и не очищаются после отправки
type Form struct {
	mu     sync.Mutex
	fields model.NewBird

	creator BirdCreator
	onAdd   func(bird model.Bird)
	log     *slog.Logger
}

// NewForm создаёт пустую форму
// onAdd вызывается с созданной птицей после успешного ответа сервера
func NewForm(creator BirdCreator, onAdd func(bird model.Bird), log *slog.Logger) *Form {
	return &Form{
		creator: creator,
		onAdd:   onAdd,
		log:     log,
	}
}

// SetField меняет одно поле формы, неизвестные имена возвращают ошибку
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldName:
		f.fields.Name = value
	case FieldSpecies:
		f.fields.Species = value
	case FieldImage:
		f.fields.Image = value
	default:
		return fmt.Errorf("ui: unknown form field %q", name)
	}
	return nil
}

// Values возвращает текущие значения полей
func (f *Form) Values() model.NewBird {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Submit отправляет один запрос на создание с текущими полями
// при ошибке ничего наверх не сообщается, поля остаются как были
func (f *Form) Submit(ctx context.Context) (model.Bird, error) {
	return f.send(ctx, f.Values())
}

// SubmitValues заполняет все поля разом и отправляет ровно эти значения
// параллельные отправки одной формы не смешивают поля друг друга
func (f *Form) SubmitValues(ctx context.Context, values model.NewBird) (model.Bird, error) {
	f.mu.Lock()
	f.fields = values
	f.mu.Unlock()

	return f.send(ctx, values)
}

func (f *Form) send(ctx context.Context, body model.NewBird) (model.Bird, error) {
	const op = "ui.Form.Submit"
	log := f.log.With(slog.String("op", op), slog.String("name", body.Name))

	bird, err := f.creator.CreateBird(ctx, body)
	if err != nil {
		log.Warn("failed to create bird", slog.String("error", err.Error()))
		return model.Bird{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("bird created", slog.Int64("bird_id", bird.ID))
	if f.onAdd != nil {
		f.onAdd(bird)
	}
	return bird, nil
}
