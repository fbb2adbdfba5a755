package ui

import "github.com/asquebay/bird-events-service/internal/model"

// Event — сообщение от дочернего компонента странице
type Event interface {
	event()
}

// SearchTermChanged отправляет Search на каждое изменение строки поиска
type SearchTermChanged struct {
	Term string
}

// BirdAdded отправляет Form после успешного создания птицы на сервере
type BirdAdded struct {
	Bird model.Bird
}

func (SearchTermChanged) event() {}
func (BirdAdded) event()         {}
