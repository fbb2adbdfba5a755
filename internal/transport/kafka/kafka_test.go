package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asquebay/bird-events-service/internal/lib/logger"
	"github.com/asquebay/bird-events-service/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/kafka-go"
)

// fakeReader отдаёт сообщения по очереди, а потом ждёт отмены контекста
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(values ...string) *fakeReader {
	r := &fakeReader{drained: make(chan struct{})}
	for i, v := range values {
		r.queue = append(r.queue, kafka.Message{Topic: "birds.import", Offset: int64(i), Value: []byte(v)})
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

// fakeCreator падает failures раз на птице с именем failFor (или всегда, если failures < 0)
type fakeCreator struct {
	mu       sync.Mutex
	created  []model.NewBird
	failFor  string
	failures int
	attempts int
}

func (c *fakeCreator) CreateBird(_ context.Context, b model.NewBird) (model.Bird, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.Name == c.failFor {
		c.attempts++
		if c.failures < 0 || c.attempts <= c.failures {
			return model.Bird{}, errors.New("db down")
		}
	}
	c.created = append(c.created, b)
	return b.WithID(int64(len(c.created))), nil
}

func newTestConsumer(reader messageReader, creator BirdCreator) *Consumer {
	return &Consumer{
		reader:       reader,
		service:      creator,
		log:          logger.Discard(),
		retryBackoff: time.Millisecond,
		maxBackoff:   4 * time.Millisecond,
	}
}

func TestConsumerImportsAndCommits(t *testing.T) {
	reader := newFakeReader(
		`{"name":"Grackle","species":"Quiscalus Quiscula","image":"./images/grackle.svg"}`,
		`not json`,
		`{"name":"Broken"}`,
		`{}`,
	)
	creator := &fakeCreator{failFor: "Broken", failures: 2}
	c := newTestConsumer(reader, creator)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain the queue")
	}
	cancel()
	<-done

	// Broken сохраняется после повторов и до следующего сообщения
	wantCreated := []model.NewBird{
		{Name: "Grackle", Species: "Quiscalus Quiscula", Image: "./images/grackle.svg"},
		{Name: "Broken"},
		{},
	}
	if diff := cmp.Diff(wantCreated, creator.created); diff != "" {
		t.Errorf("created birds mismatch (-want +got):\n%s", diff)
	}
	if creator.attempts != 3 {
		t.Errorf("expected 3 attempts for the failing bird, got %d", creator.attempts)
	}

	// невалидный JSON пропускается и подтверждается, offset 2 подтверждается после повторов
	if diff := cmp.Diff([]int64{0, 1, 2, 3}, reader.committed); diff != "" {
		t.Errorf("committed offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestConsumerStopsRetryingOnCancel(t *testing.T) {
	reader := newFakeReader(`{"name":"Broken"}`, `{"name":"Next"}`)
	creator := &fakeCreator{failFor: "Broken", failures: -1}
	c := newTestConsumer(reader, creator)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		creator.mu.Lock()
		attempts := creator.attempts
		creator.mu.Unlock()
		if attempts >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("consumer did not retry the failing message")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	if len(reader.committed) != 0 {
		t.Errorf("failed message must not be committed, got %v", reader.committed)
	}
	if len(reader.queue) != 1 {
		t.Errorf("next message must not be fetched while retrying, queue = %d", len(reader.queue))
	}
	if len(creator.created) != 0 {
		t.Errorf("nothing should be created, got %v", creator.created)
	}
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublishBirdCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, log: logger.Discard()}

	bird := model.Bird{ID: 7, Name: "Tux", Species: "Penguin", Image: "u2"}
	if err := p.PublishBirdCreated(context.Background(), bird); err != nil {
		t.Fatalf("PublishBirdCreated: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	if got := string(w.msgs[0].Key); got != "7" {
		t.Errorf("key = %q, want %q", got, "7")
	}

	var ev BirdEvent
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if diff := cmp.Diff(BirdEvent{Event: EventBirdCreated, Bird: bird}, ev); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestProducerWriteFailure(t *testing.T) {
	writeErr := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: writeErr}, log: logger.Discard()}

	if err := p.PublishBirdCreated(context.Background(), model.Bird{ID: 1}); !errors.Is(err, writeErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}
