package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/ui"

	"github.com/prometheus/client_golang/prometheus"
)

const sessionCookie = "bird_session"

// UIHandler отдаёт страницу с птицами и принимает её формы
// каждое действие становится событием для страницы сессии, после которого браузер
// перенаправляется обратно на страницу (post/redirect/get)
type UIHandler struct {
	sessions  *ui.Sessions
	loadWait  time.Duration
	staticDir string
	metrics   *Metrics
	log       *slog.Logger
}

// NewUIHandler создает обработчик страницы
// loadWait — сколько первый запрос сессии ждёт начальной загрузки птиц
func NewUIHandler(sessions *ui.Sessions, loadWait time.Duration, staticDir string, metrics *Metrics, log *slog.Logger) *UIHandler {
	return &UIHandler{
		sessions:  sessions,
		loadWait:  loadWait,
		staticDir: staticDir,
		metrics:   metrics,
		log:       log.With(slog.String("component", "ui")),
	}
}

func (u *UIHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", u.showPage)
	mux.HandleFunc("POST "+ui.PathSearch, u.changeSearch)
	mux.HandleFunc("POST "+ui.PathBirds, u.submitForm)
	mux.HandleFunc("POST /ui/cards/{key}/toggle", u.toggleStock)

	// роутинг для статики (CSS и картинки птиц)
	if u.staticDir != "" {
		fileServer := http.FileServer(http.Dir(u.staticDir))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fileServer))
		mux.Handle("GET /images/", fileServer)
	}
}

func (u *UIHandler) showPage(w http.ResponseWriter, r *http.Request) {
	page := u.page(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := page.Render(w); err != nil {
		u.log.Error("failed to render page", slog.String("error", err.Error()))
	}
}

func (u *UIHandler) changeSearch(w http.ResponseWriter, r *http.Request) {
	page := u.page(w, r)

	page.Search().Change(r.PostFormValue("search"))
	u.countEvent("search")

	http.Redirect(w, r, ui.PathPage, http.StatusSeeOther)
}

func (u *UIHandler) submitForm(w http.ResponseWriter, r *http.Request) {
	page := u.page(w, r)
	values := model.NewBird{
		Name:    r.PostFormValue(ui.FieldName),
		Species: r.PostFormValue(ui.FieldSpecies),
		Image:   r.PostFormValue(ui.FieldImage),
	}
	u.countEvent("submit")

	// неудачное создание ничего не меняет на странице, форма остаётся заполненной
	_, _ = page.Form().SubmitValues(r.Context(), values)

	http.Redirect(w, r, ui.PathPage, http.StatusSeeOther)
}

func (u *UIHandler) toggleStock(w http.ResponseWriter, r *http.Request) {
	page := u.page(w, r)

	if !page.ToggleStock(r.PathValue("key")) {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}
	u.countEvent("toggle")

	http.Redirect(w, r, ui.PathPage, http.StatusSeeOther)
}

// page возвращает страницу сессии, заводя новую сессию при необходимости
func (u *UIHandler) page(w http.ResponseWriter, r *http.Request) *ui.Page {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if page, ok := u.sessions.Get(c.Value); ok {
			return page
		}
	}

	id, page := u.sessions.Start()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	u.log.Debug("session started", slog.String("session_id", id))

	u.waitLoaded(r.Context(), page)
	return page
}

// waitLoaded даёт начальной загрузке немного времени, чтобы первая
// отрисовка не была пустой; рендер при этом не блокируется навсегда
func (u *UIHandler) waitLoaded(ctx context.Context, page *ui.Page) {
	if u.loadWait <= 0 {
		return
	}

	timer := time.NewTimer(u.loadWait)
	defer timer.Stop()

	select {
	case <-page.Loaded():
	case <-timer.C:
		u.log.Warn("initial bird load is still in flight, rendering without it")
	case <-ctx.Done():
	}
}

func (u *UIHandler) countEvent(name string) {
	if u.metrics != nil {
		u.metrics.UIEvents.WithLabelValues(name).Inc()
	}
}

// InstrumentAPI оборачивает клиента /birds, считая его неудачные вызовы
func (m *Metrics) InstrumentAPI(api ui.BirdAPI) ui.BirdAPI {
	return &countingAPI{api: api, failures: m.UIFailures}
}

type countingAPI struct {
	api      ui.BirdAPI
	failures *prometheus.CounterVec
}

func (c *countingAPI) ListBirds(ctx context.Context) ([]model.Bird, error) {
	birds, err := c.api.ListBirds(ctx)
	if err != nil {
		c.failures.WithLabelValues("list").Inc()
	}
	return birds, err
}

func (c *countingAPI) CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error) {
	created, err := c.api.CreateBird(ctx, bird)
	if err != nil {
		c.failures.WithLabelValues("create").Inc()
	}
	return created, err
}
