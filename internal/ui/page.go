package ui

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/asquebay/bird-events-service/internal/model"
)

// BirdLister читает всю коллекцию птиц
type BirdLister interface {
	ListBirds(ctx context.Context) ([]model.Bird, error)
}

// BirdAPI — всё, что странице нужно от ресурса /birds
type BirdAPI interface {
	BirdLister
	BirdCreator
}

// Page — оркестратор страницы
// владеет полным списком птиц (только дописывается) и строкой поиска
type Page struct {
	mu         sync.Mutex
	birds      []model.Bird
	searchTerm string
	list       *List

	api    BirdAPI
	form   *Form
	search *Search
	log    *slog.Logger

	mountOnce sync.Once
	cancel    context.CancelFunc
	loaded    chan struct{}
}

// NewPage создаёт страницу с пустым списком птиц
func NewPage(api BirdAPI, log *slog.Logger) *Page {
	p := &Page{
		birds:  []model.Bird{},
		api:    api,
		log:    log,
		list:   NewList(),
		cancel: func() {},
		loaded: make(chan struct{}),
	}
	p.form = NewForm(api, func(b model.Bird) { p.Dispatch(BirdAdded{Bird: b}) }, log)
	p.search = NewSearch(func(term string) { p.Dispatch(SearchTermChanged{Term: term}) })
	return p
}

// Mount запускает однократное асинхронное чтение коллекции и сразу возвращается
// при успехе список птиц заменяется целиком, при ошибке остаётся пустым
func (p *Page) Mount(ctx context.Context) {
	p.mountOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)

		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()

		go p.load(ctx)
	})
}

func (p *Page) load(ctx context.Context) {
	const op = "ui.Page.load"
	log := p.log.With(slog.String("op", op))
	defer close(p.loaded)

	birds, err := p.api.ListBirds(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("failed to load birds", slog.String("error", err.Error()))
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// страница уже размонтирована: результат никому не нужен
	if ctx.Err() != nil {
		return
	}
	p.birds = birds
	log.Debug("birds loaded", slog.Int("birds_count", len(birds)))

	for _, id := range duplicateIDs(birds) {
		log.Warn("duplicate bird id in list", slog.Int64("bird_id", id))
	}
}

// duplicateIDs возвращает ID, встречающиеся больше одного раза, по одному разу каждый
func duplicateIDs(birds []model.Bird) []int64 {
	seen := make(map[int64]int, len(birds))
	var dups []int64
	for _, b := range birds {
		seen[b.ID]++
		if seen[b.ID] == 2 {
			dups = append(dups, b.ID)
		}
	}
	return dups
}

// Loaded закрывается, когда начальное чтение завершилось (успешно или нет)
func (p *Page) Loaded() <-chan struct{} {
	return p.loaded
}

// Unmount отменяет начальное чтение, если оно ещё идёт
func (p *Page) Unmount() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
}

// Dispatch применяет событие дочернего компонента к состоянию страницы
func (p *Page) Dispatch(ev Event) {
	switch ev := ev.(type) {
	case SearchTermChanged:
		p.mu.Lock()
		p.searchTerm = ev.Term
		p.mu.Unlock()
	case BirdAdded:
		p.HandleAddBird(ev.Bird)
	}
}

// HandleAddBird дописывает птицу в конец списка, дубликаты не отсекаются
func (p *Page) HandleAddBird(bird model.Bird) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if slices.ContainsFunc(p.birds, func(b model.Bird) bool { return b.ID == bird.ID }) {
		p.log.Warn("duplicate bird id in list", slog.Int64("bird_id", bird.ID))
	}
	p.birds = append(p.birds, bird)
}

// Birds возвращает копию полного списка птиц
func (p *Page) Birds() []model.Bird {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]model.Bird(nil), p.birds...)
}

// SearchTerm возвращает текущую строку поиска
func (p *Page) SearchTerm() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.searchTerm
}

// Displayed возвращает птиц, подходящих под строку поиска
func (p *Page) Displayed() []model.Bird {
	p.mu.Lock()
	defer p.mu.Unlock()

	return FilterByName(p.birds, p.searchTerm)
}

// Form возвращает форму новой птицы
func (p *Page) Form() *Form { return p.form }

// Search возвращает поле поиска
func (p *Page) Search() *Search { return p.search }

// Cards согласовывает карточки с отображаемым списком и возвращает их снимки
func (p *Page) Cards() []CardView {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cardsLocked()
}

func (p *Page) cardsLocked() []CardView {
	cards := p.list.Reconcile(FilterByName(p.birds, p.searchTerm))

	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, newCardView(c))
	}
	return views
}

// ToggleStock нажимает кнопку доступности на смонтированной карточке
// возвращает false, если карточки с таким ключом сейчас нет
func (p *Page) ToggleStock(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	// сначала приводим карточки к тому, что сейчас на экране
	p.list.Reconcile(FilterByName(p.birds, p.searchTerm))

	card, ok := p.list.Card(key)
	if !ok {
		return false
	}
	card.Toggle()
	return true
}
