package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/repository"
)

// maxBirdBodyBytes ограничивает тело POST /birds
const maxBirdBodyBytes = 1 << 20

// BirdService определяет интерфейс сервиса, который обслуживает ресурс /birds
// Это позволяет хэндлеру не зависеть от конкретной реализации сервиса
type BirdService interface {
	ListBirds(ctx context.Context) ([]model.Bird, error)
	GetBird(ctx context.Context, id int64) (model.Bird, error)
	CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error)
}

// Handler обрабатывает HTTP-запросы
type Handler struct {
	service BirdService
	ui      *UIHandler
	metrics *Metrics
	log     *slog.Logger
	mux     *http.ServeMux
	root    http.Handler
}

// NewHandler создает новый экземпляр Handler
// если ui или metrics равны nil, их маршруты не регистрируются
func NewHandler(service BirdService, ui *UIHandler, metrics *Metrics, log *slog.Logger) *Handler {
	h := &Handler{
		service: service,
		ui:      ui,
		metrics: metrics,
		log:     log,
		mux:     http.NewServeMux(),
	}
	h.registerRoutes()

	h.root = h.mux
	if metrics != nil {
		h.root = metrics.Instrument(h.mux)
	}
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// registerRoutes регистрирует все эндпоинты
func (h *Handler) registerRoutes() {
	// REST-ресурс птиц
	h.mux.HandleFunc("GET /birds", h.listBirds)
	h.mux.HandleFunc("POST /birds", h.createBird)
	h.mux.HandleFunc("GET /birds/{id}", h.getBird)

	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}

	// страница с птицами и статика
	if h.ui != nil {
		h.ui.register(h.mux)
	}
}

func (h *Handler) listBirds(w http.ResponseWriter, r *http.Request) {
	birds, err := h.service.ListBirds(r.Context())
	if err != nil {
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, birds)
}

func (h *Handler) createBird(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBirdBodyBytes)

	var newBird model.NewBird
	if err := json.NewDecoder(r.Body).Decode(&newBird); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	bird, err := h.service.CreateBird(r.Context(), newBird)
	if err != nil {
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.metrics != nil {
		h.metrics.BirdsCreated.Inc()
	}
	h.respondJSON(w, http.StatusCreated, bird)
}

func (h *Handler) getBird(w http.ResponseWriter, r *http.Request) {
	// извлекаем id из URL
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	bird, err := h.service.GetBird(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBirdNotFound) {
			h.respondError(w, http.StatusNotFound, "bird not found")
			return
		}
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, bird)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal JSON response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
