package ui

import (
	"fmt"
	"html/template"
	"io"
)

// Адреса, на которые отправляют формы страницы
const (
	PathPage   = "/"
	PathSearch = "/ui/search"
	PathBirds  = "/ui/birds"
)

// TogglePath — адрес кнопки доступности карточки
func TogglePath(key string) string {
	return "/ui/cards/" + key + "/toggle"
}

// CardView — снимок карточки для шаблона
type CardView struct {
	Key     string
	ID      int64
	Name    string
	Species string
	Image   string
	InStock bool
	Label   string
	Class   string
	Action  string
}

func newCardView(c *Card) CardView {
	b := c.Bird()
	return CardView{
		Key:     c.Key(),
		ID:      b.ID,
		Name:    b.Name,
		Species: b.Species,
		Image:   b.Image,
		InStock: c.InStock(),
		Label:   c.Label(),
		Class:   c.ButtonClass(),
		Action:  TogglePath(c.Key()),
	}
}

type pageView struct {
	Title        string
	SearchTerm   string
	SearchAction string
	FormAction   string
	Name         string
	Species      string
	Image        string
	Cards        []CardView
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/styles.css">
</head>
<body>
<div class="app">
{{template "header" .}}
<main>
{{template "form" .}}
{{template "search" .}}
{{template "list" .Cards}}
</main>
</div>
</body>
</html>
{{define "header"}}<header>
<h1>{{.Title}}</h1>
</header>{{end}}
{{define "form"}}<div class="new-bird-form">
<h2>New Bird</h2>
<form method="post" action="{{.FormAction}}">
<input type="text" name="name" placeholder="Bird name" value="{{.Name}}">
<input type="text" name="species" placeholder="Species" value="{{.Species}}">
<input type="text" name="image" placeholder="Image URL" value="{{.Image}}">
<button type="submit">Add Bird</button>
</form>
</div>{{end}}
{{define "search"}}<div class="searchbar">
<form method="post" action="{{.SearchAction}}">
<label for="search">Search Birds:</label>
<input type="text" id="search" name="search" placeholder="Type a name to search..." value="{{.SearchTerm}}">
</form>
</div>{{end}}
{{define "list"}}<ul class="cards">
{{range .}}{{template "card" .}}
{{end}}</ul>{{end}}
{{define "card"}}<li class="card" data-key="{{.Key}}">
<img src="{{.Image}}" alt="{{.Name}}">
<h4>{{.Name}}</h4>
<p>Species: {{.Species}}</p>
<form method="post" action="{{.Action}}">
<button{{with .Class}} class="{{.}}"{{end}} type="submit">{{.Label}}</button>
</form>
</li>{{end}}
`))

// Title — заголовок страницы
const Title = "Bird Events"

// Render пишет HTML страницы для текущего состояния
// состояние снимается под блокировкой, шаблон исполняется уже без неё
func (p *Page) Render(w io.Writer) error {
	fields := p.form.Values()

	p.mu.Lock()
	view := pageView{
		Title:        Title,
		SearchTerm:   p.searchTerm,
		SearchAction: PathSearch,
		FormAction:   PathBirds,
		Name:         fields.Name,
		Species:      fields.Species,
		Image:        fields.Image,
		Cards:        p.cardsLocked(),
	}
	p.mu.Unlock()

	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("ui.Page.Render: %w", err)
	}
	return nil
}
