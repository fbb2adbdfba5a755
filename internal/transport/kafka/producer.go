package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/asquebay/bird-events-service/internal/model"

	"github.com/segmentio/kafka-go"
)

// EventBirdCreated — тип события о новой птице
const EventBirdCreated = "bird.created"

// BirdEvent — сообщение в топике событий
type BirdEvent struct {
	Event string     `json:"event"`
	Bird  model.Bird `json:"bird"`
}

// messageWriter — то, что продюсеру нужно от kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события о птицах
type Producer struct {
	writer messageWriter
	log    *slog.Logger
}

// NewProducer создает продюсера для указанного топика
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		log:    log.With(slog.String("component", "kafka_producer")),
	}
}

// PublishBirdCreated отправляет событие bird.created
// ключ сообщения — ID птицы, чтобы события одной птицы шли в одну партицию
func (p *Producer) PublishBirdCreated(ctx context.Context, bird model.Bird) error {
	const op = "transport.kafka.Producer.PublishBirdCreated"

	value, err := json.Marshal(BirdEvent{Event: EventBirdCreated, Bird: bird})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal event: %w", op, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(bird.ID, 10)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to write message: %w", op, err)
	}

	p.log.Debug("event published", slog.String("event", EventBirdCreated), slog.Int64("bird_id", bird.ID))
	return nil
}

// Close закрывает продюсера, дожидаясь отправки буфера
func (p *Producer) Close() error {
	p.log.Info("Closing kafka producer")
	return p.writer.Close()
}
