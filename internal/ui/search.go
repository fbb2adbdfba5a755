package ui

// Search — поле поиска без собственного состояния
// каждое изменение сразу уходит наверх, без задержек и минимальной длины
type Search struct {
	onChange func(term string)
}

// NewSearch создаёт поле поиска, сообщающее об изменениях в onChange
func NewSearch(onChange func(term string)) *Search {
	return &Search{onChange: onChange}
}

// Change сообщает новое полное значение строки поиска
func (s *Search) Change(term string) {
	if s.onChange != nil {
		s.onChange(term)
	}
}
