package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asquebay/bird-events-service/internal/client"
	"github.com/asquebay/bird-events-service/internal/config"
	"github.com/asquebay/bird-events-service/internal/lib/logger"
	"github.com/asquebay/bird-events-service/internal/repository/cache"
	"github.com/asquebay/bird-events-service/internal/service"
	"github.com/asquebay/bird-events-service/internal/storage"
	httptransport "github.com/asquebay/bird-events-service/internal/transport/http"
	"github.com/asquebay/bird-events-service/internal/transport/kafka"
	"github.com/asquebay/bird-events-service/internal/ui"
)

func main() {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path())

	// 2. Инициализация логгера
	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("starting bird-events-service",
		slog.String("log_level", cfg.Logger.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	// 3. Инициализация репозитория (БД)
	initCtx := context.Background()
	birdRepo, closeRepo, err := storage.Open(initCtx, cfg)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()
	log.Info("storage is ready")

	// 4. Инициализация кэша
	birdCache := cache.NewBirdCache()

	// 5. Kafka: продюсер событий (если включена)
	var publisher service.EventPublisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, log)
		publisher = producer
	}

	// 6. Инициализация сервисного слоя
	birdSvc := service.NewBirdService(birdRepo, birdCache, publisher, log)

	// 7. Восстановление кэша из БД при старте
	if err := birdSvc.RestoreCache(initCtx); err != nil {
		// не фатальная ошибка, сервис может работать и с пустым кэшем
		log.Error("failed to restore cache", slog.String("error", err.Error()))
	}

	// 8. Консьюмер импорта птиц
	ctx, cancel := context.WithCancel(context.Background())
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ImportTopic, cfg.Kafka.GroupID, birdSvc, log)
		go consumer.Run(ctx)
	}

	// 9. Страница с птицами: ходит в /birds через HTTP-клиента
	metrics := httptransport.NewMetrics()
	api := metrics.InstrumentAPI(client.New(cfg.UI.APIBaseURL))
	sessions := ui.NewSessions(cfg.UI.MaxSessions, cfg.UI.SessionTTL, func() *ui.Page {
		return ui.NewPage(api, log.With(slog.String("component", "bird_page")))
	})
	uiHandler := httptransport.NewUIHandler(sessions, cfg.UI.InitialLoadWait, cfg.UI.StaticDir, metrics, log)

	// 10. Инициализация и запуск HTTP-сервера
	handler := httptransport.NewHandler(birdSvc, uiHandler, metrics, log)
	httpServer := httptransport.NewServer(cfg.HTTPServer, handler)
	log.Info("starting http server", slog.String("port", cfg.HTTPServer.Port))

	go func() {
		if err := httpServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed to start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// 11. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down application")
	cancel() // сигнал для консьюмера на завершение

	// создаем контекст с таймаутом для шатдауна сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	// размонтируем все страницы
	sessions.Close()

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error("error closing kafka consumer", slog.String("error", err.Error()))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("error closing kafka producer", slog.String("error", err.Error()))
		}
	}

	log.Info("application stopped")
}
