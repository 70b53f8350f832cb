package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher публикует события консультаций в Kafka
type Publisher struct {
	writer MessageWriter
	topic  string
	log    Logger
	now    func() time.Time
}

// NewPublisher создает издателя с *kafka.Writer для brokers
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(writer, topic, log)
}

// NewPublisherWithWriter создает издателя поверх произвольного writer
func NewPublisherWithWriter(writer MessageWriter, topic string, log Logger) *Publisher {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	return &Publisher{writer: writer, topic: topic, log: log, now: time.Now}
}

// Publish отправляет событие с ключом intakeID
// Ключ сохраняет порядок событий одной записи в партиции
func (p *Publisher) Publish(ctx context.Context, eventType string, intakeID int64, payload interface{}) error {
	evt := Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		IntakeID:   intakeID,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(intakeID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Events: failed to publish %s for intake=%d: %v", eventType, intakeID, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, eventType, err)
	}

	p.log.Info("Events: published %s for intake=%d, event_id=%s", eventType, intakeID, evt.EventID)
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher используется, когда брокеры Kafka не настроены
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, string, int64, interface{}) error {
	return nil
}

// Close ничего не делает
func (NopPublisher) Close() error {
	return nil
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
