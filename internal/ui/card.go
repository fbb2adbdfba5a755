package ui

import "github.com/asquebay/bird-events-service/internal/model"

// Availability — состояние кнопки доступности на карточке
type Availability int

const (
	Available Availability = iota
	Booked
)

func (a Availability) String() string {
	if a == Booked {
		return "Fully Booked"
	}
	return "Available for Events"
}

// Card — карточка одной птицы
// флаг доступности живёт только в карточке: сервер о нём не знает
type Card struct {
	key     string
	bird    model.Bird
	inStock bool
}

// NewCard создаёт карточку в состоянии Available, независимо от данных птицы
func NewCard(key string, bird model.Bird) *Card {
	return &Card{key: key, bird: bird, inStock: true}
}

// Toggle переключает Available <-> Booked
func (c *Card) Toggle() {
	c.inStock = !c.inStock
}

// Key — ключ карточки в списке
func (c *Card) Key() string { return c.key }

// Bird возвращает птицу, которую показывает карточка
func (c *Card) Bird() model.Bird { return c.bird }

// InStock сообщает, доступна ли птица для мероприятий
func (c *Card) InStock() bool { return c.inStock }

// State возвращает текущее состояние карточки
func (c *Card) State() Availability {
	if c.inStock {
		return Available
	}
	return Booked
}

// Label — текст кнопки
func (c *Card) Label() string { return c.State().String() }

// ButtonClass — стиль кнопки: "primary" для доступной птицы, иначе стиль по умолчанию
func (c *Card) ButtonClass() string {
	if c.inStock {
		return "primary"
	}
	return ""
}
