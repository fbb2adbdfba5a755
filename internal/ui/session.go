package ui

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Sessions хранит по одной смонтированной странице на сессию браузера
// вытесненная или протухшая сессия размонтирует свою страницу
type Sessions struct {
	pages   *expirable.LRU[string, *Page]
	newPage func() *Page
}

// NewSessions создаёт хранилище на size сессий с временем жизни ttl
func NewSessions(size int, ttl time.Duration, newPage func() *Page) *Sessions {
	onEvict := func(_ string, p *Page) {
		p.Unmount()
	}

	return &Sessions{
		pages:   expirable.NewLRU[string, *Page](size, onEvict, ttl),
		newPage: newPage,
	}
}

// Get возвращает страницу сессии, если она ещё жива
func (s *Sessions) Get(id string) (*Page, bool) {
	if id == "" {
		return nil, false
	}
	return s.pages.Get(id)
}

// Start создаёт новую сессию и монтирует её страницу
func (s *Sessions) Start() (string, *Page) {
	id := uuid.NewString()
	page := s.newPage()

	// чтение живёт дольше запроса, который создал сессию
	page.Mount(context.Background())
	s.pages.Add(id, page)

	return id, page
}

// End завершает сессию
func (s *Sessions) End(id string) {
	s.pages.Remove(id)
}

// Len — количество живых сессий
func (s *Sessions) Len() int {
	return s.pages.Len()
}

// Close завершает все сессии
func (s *Sessions) Close() {
	s.pages.Purge()
}
