package cache

import (
	"cmp"
	"slices"
	"sync"

	"github.com/asquebay/bird-events-service/internal/model"
)

// BirdCache — потокобезопасный in-memory кэш для птиц
type BirdCache struct {
	// Ключ — int64 (ID птицы), значение — model.Bird
	storage sync.Map
}

// NewBirdCache создаёт новый экземпляр кэша
func NewBirdCache() *BirdCache {
	return &BirdCache{}
}

// Set добавляет или обновляет птицу в кэше
func (c *BirdCache) Set(bird model.Bird) {
	c.storage.Store(bird.ID, bird)
}

// Get извлекает птицу из кэша по её ID
// возвращает птицу и true, если она найдена, иначе — пустую структуру и false
func (c *BirdCache) Get(id int64) (model.Bird, bool) {
	value, ok := c.storage.Load(id)
	if !ok {
		return model.Bird{}, false
	}

	// выполняем безопасное приведение типа
	bird, ok := value.(model.Bird)
	return bird, ok
}

// All возвращает всех птиц из кэша, отсортированных по ID
func (c *BirdCache) All() []model.Bird {
	birds := []model.Bird{}
	c.storage.Range(func(_, value any) bool {
		if bird, ok := value.(model.Bird); ok {
			birds = append(birds, bird)
		}
		return true
	})

	slices.SortFunc(birds, func(a, b model.Bird) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return birds
}

// LoadAll загружает в кэш срез птиц
// используется для первоначального заполнения кэша при старте сервиса
func (c *BirdCache) LoadAll(birds []model.Bird) {
	for _, bird := range birds {
		c.Set(bird)
	}
}

// Replace приводит кэш к переданному срезу: птицы, которых нет в срезе, удаляются
// кэш не пустеет в процессе, поэтому параллельные Get не промахиваются зря
func (c *BirdCache) Replace(birds []model.Bird) {
	keep := make(map[int64]struct{}, len(birds))
	for _, bird := range birds {
		keep[bird.ID] = struct{}{}
	}

	c.LoadAll(birds)

	c.storage.Range(func(key, _ any) bool {
		if id, ok := key.(int64); ok {
			if _, found := keep[id]; !found {
				c.storage.Delete(id)
			}
		}
		return true
	})
}
