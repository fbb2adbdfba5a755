package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/asquebay/bird-events-service/internal/model"

	"github.com/segmentio/kafka-go"
)

// BirdCreator — это интерфейс, который абстрагирует консьюмер
// от конкретной реализации сервисного слоя
type BirdCreator interface {
	CreateBird(ctx context.Context, bird model.NewBird) (model.Bird, error)
}

// messageReader — то, что консьюмеру нужно от kafka.Reader
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Пауза между повторами сообщения, которое не удалось сохранить
const (
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// Consumer импортирует новых птиц из топика Kafka
// offset в группе один на партицию, поэтому сообщение, которое не удалось
// сохранить, повторяется на месте: следующее не читается, пока это не пройдёт
type Consumer struct {
	reader  messageReader
	service BirdCreator
	log     *slog.Logger

	retryBackoff time.Duration
	maxBackoff   time.Duration
}

// NewConsumer создает новый экземпляр консьюмера
func NewConsumer(brokers []string, topic, groupID string, service BirdCreator, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})

	return &Consumer{
		reader:       reader,
		service:      service,
		log:          log.With(slog.String("component", "kafka_consumer")),
		retryBackoff: defaultRetryBackoff,
		maxBackoff:   maxRetryBackoff,
	}
}

// Run запускает цикл чтения сообщений из Kafka
// эта функция блокирующая, поэтому она запускается в отдельной горутине
func (c *Consumer) Run(ctx context.Context) {
	c.log.Info("Kafka consumer started")

	for {
		// FetchMessage блокирует до тех пор, пока не придет новое сообщение или не возникнет ошибка
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// если контекст был отменен во время ожидания, это нормальное завершение
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.log.Info("Context cancelled, stopping consumer.")
				return
			}
			// если ридер был закрыт, тоже выходим
			if errors.Is(err, io.EOF) {
				c.log.Info("Kafka reader closed")
				return
			}
			c.log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue // пробуем снова
		}

		c.log.Info("received message", slog.String("topic", msg.Topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

		// 1. Обрабатываем, повторяя до успеха: следующее сообщение не читается,
		// пока offset этого не зафиксирован
		if err := c.handleWithRetry(ctx, msg); err != nil {
			c.log.Info("Context cancelled while retrying, stopping consumer.")
			return
		}

		// 2. Всё прошло, фиксируем offset
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// handleWithRetry повторяет handleMessage с растущей паузой
// ошибка возвращается только при отмене контекста
func (c *Consumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	backoff := c.retryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	maxBackoff := c.maxBackoff
	if maxBackoff < backoff {
		maxBackoff = backoff
	}

	for attempt := 1; ; attempt++ {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			return nil
		}

		c.log.Warn("retrying message",
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

// handleMessage парсит и обрабатывает одно сообщение
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var bird model.NewBird

	// распарсим JSON
	if err := json.Unmarshal(msg.Value, &bird); err != nil {
		// сообщение невалидно. Логируем и пропускаем
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return nil // возвращаем nil, так как перечитывать это сообщение бессмысленно
	}

	// передаём птицу в сервисный слой для сохранения в БД и кэше
	created, err := c.service.CreateBird(ctx, bird)
	if err != nil {
		c.log.Error("failed to create bird in service",
			slog.String("error", err.Error()),
			slog.String("name", bird.Name),
		)
		return err // возвращаем ошибку, чтобы сообщение обработали повторно
	}

	c.log.Info("bird successfully imported", slog.Int64("bird_id", created.ID))
	return nil
}

// Close — graceful shutdown консьюмера
func (c *Consumer) Close() error {
	c.log.Info("Closing kafka consumer")
	return c.reader.Close()
}
