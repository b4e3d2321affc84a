package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"ms-booths/internal/logger"
	"ms-booths/internal/models"
)

const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
)

// ReservationEvent is the message body written to the reservations topic.
type ReservationEvent struct {
	EventID        string                   `json:"eventId"`
	Type           string                   `json:"type"`
	OccurredAt     time.Time                `json:"occurredAt"`
	PreviousStatus models.ReservationStatus `json:"previousStatus,omitempty"`
	Reservation    models.Reservation       `json:"reservation"`
}

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishReservationCreated streams a new reservation to Kafka. The message key
// is the booth id so all events of one booth stay ordered in a partition.
func (p *Producer) PublishReservationCreated(ctx context.Context, r models.Reservation) error {
	return p.publish(ctx, ReservationEvent{
		Type:        EventReservationCreated,
		Reservation: r,
	})
}

// PublishReservationStatusChanged streams a status transition to Kafka.
func (p *Producer) PublishReservationStatusChanged(ctx context.Context, r models.Reservation, previous models.ReservationStatus) error {
	return p.publish(ctx, ReservationEvent{
		Type:           EventReservationStatusChanged,
		PreviousStatus: previous,
		Reservation:    r,
	})
}

func (p *Producer) publish(ctx context.Context, ev ReservationEvent) error {
	ev.EventID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()

	msgBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", p.Topic, fmt.Sprintf("%s reservation #%d", ev.Type, ev.Reservation.ID))
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Reservation.BoothID),
		Value: msgBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
			{Key: "reservation-id", Value: []byte(strconv.FormatInt(ev.Reservation.ID, 10))},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s event: %w", ev.Type, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopProducer is used when Kafka is disabled.
type NoopProducer struct{}

func (NoopProducer) PublishReservationCreated(context.Context, models.Reservation) error { return nil }

func (NoopProducer) PublishReservationStatusChanged(context.Context, models.Reservation, models.ReservationStatus) error {
	return nil
}

func (NoopProducer) Close() error { return nil }
