package model

import (
	"github.com/go-playground/validator/v10"
)

// Bird представляет птицу, доступную для мероприятий
// ID назначается сервером при создании и больше не меняется
type Bird struct {
	ID      int64  `json:"id" db:"id" validate:"gt=0"`
	Name    string `json:"name" db:"name"`
	Species string `json:"species" db:"species"`
	Image   string `json:"image" db:"image"`
}

// NewBird — тело запроса на создание птицы
// поля намеренно не валидируются: пустые строки допустимы
type NewBird struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Image   string `json:"image"`
}

// WithID собирает запись Bird из запроса на создание и выданного сервером ID
func (n NewBird) WithID(id int64) Bird {
	return Bird{
		ID:      id,
		Name:    n.Name,
		Species: n.Species,
		Image:   n.Image,
	}
}

var validate = validator.New()

// Validate проверяет, что у записи есть серверный ID
func (b *Bird) Validate() error {
	return validate.Struct(b)
}
