package http

import (
	"context"
	"net/http"

	"github.com/asquebay/bird-events-service/internal/config"
)

// Server — обёртка над http.Server с таймаутами из секции http_server
type Server struct {
	httpServer *http.Server
}

// NewServer собирает сервер для обработчика handler
// заголовки запроса читаются с тем же лимитом, что и всё тело
func NewServer(cfg config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Run слушает порт и блокируется до остановки
// после Shutdown возвращает http.ErrServerClosed
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown дожидается текущих запросов, пока не истечёт ctx
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
