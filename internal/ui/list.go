package ui

import (
	"strconv"

	"github.com/asquebay/bird-events-service/internal/model"
)

// List сопоставляет отображаемым птицам карточки по ключу
// карточка живёт, пока её ключ присутствует в отображаемом списке
type List struct {
	cards map[string]*Card
}

// NewList создаёт пустой список карточек
func NewList() *List {
	return &List{cards: make(map[string]*Card)}
}

// CardKey строит ключ карточки: ID птицы, а для повторов ID "ID-n"
func CardKey(id int64, occurrence int) string {
	key := strconv.FormatInt(id, 10)
	if occurrence > 1 {
		key += "-" + strconv.Itoa(occurrence)
	}
	return key
}

// Reconcile приводит набор карточек к переданному списку и возвращает их в том же порядке
// карточки с сохранившимся ключом сохраняют состояние, новые создаются доступными,
// исчезнувшие удаляются вместе со своим состоянием
func (l *List) Reconcile(birds []model.Bird) []*Card {
	seen := make(map[int64]int, len(birds))
	next := make(map[string]*Card, len(birds))
	cards := make([]*Card, 0, len(birds))

	for _, b := range birds {
		seen[b.ID]++

		key := CardKey(b.ID, seen[b.ID])
		card, ok := l.cards[key]
		if ok {
			card.bird = b
		} else {
			card = NewCard(key, b)
		}

		next[key] = card
		cards = append(cards, card)
	}

	l.cards = next
	return cards
}

// Card ищет смонтированную карточку по ключу
func (l *List) Card(key string) (*Card, bool) {
	card, ok := l.cards[key]
	return card, ok
}

// Len — количество смонтированных карточек
func (l *List) Len() int {
	return len(l.cards)
}
