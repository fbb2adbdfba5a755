package ui

import (
	"strings"

	"github.com/asquebay/bird-events-service/internal/model"
)

// FilterByName возвращает птиц, имя которых содержит term без учёта регистра
// порядок сохраняется, пустой term пропускает всех
func FilterByName(birds []model.Bird, term string) []model.Bird {
	needle := strings.ToLower(term)

	displayed := make([]model.Bird, 0, len(birds))
	for _, b := range birds {
		if strings.Contains(strings.ToLower(b.Name), needle) {
			displayed = append(displayed, b)
		}
	}
	return displayed
}
