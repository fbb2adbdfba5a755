// утилита для ручной проверки импорта птиц через кафку,
// приложение от неё не зависит
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/asquebay/bird-events-service/internal/model"

	"github.com/segmentio/kafka-go"
)

func main() {
	brokerAddress := flag.String("broker", "localhost:9092", "адрес брокера")
	topic := flag.String("topic", "birds.import", "топик импорта")
	name := flag.String("name", "Grackle", "имя птицы")
	species := flag.String("species", "Quiscalus Quiscula", "вид")
	image := flag.String("image", "./images/grackle.svg", "картинка")
	flag.Parse()

	value, err := json.Marshal(model.NewBird{Name: *name, Species: *species, Image: *image})
	if err != nil {
		log.Fatalf("failed to encode bird: %v", err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokerAddress),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
	defer writer.Close()

	log.Printf("sending bird %q to %s", *name, *topic)
	if err := writer.WriteMessages(context.Background(), kafka.Message{Value: value}); err != nil {
		log.Fatalf("failed to write message: %v", err)
	}
	log.Println("message sent")
}
