package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/models"
)

const (
	deliveryTimeout = 10 * time.Second
	flushTimeoutMs  = 15 * 1000
)

// AuditEvent is the message published for every stored audit entry.
// Payloads are redacted before they leave the process.
type AuditEvent struct {
	EventID       string    `json:"event_id"`
	Source        string    `json:"source"`
	EventType     string    `json:"event_type"`
	EventCategory string    `json:"event_category"`
	Actor         string    `json:"actor"`
	ActorEmail    string    `json:"actor_email,omitempty"`
	Method        string    `json:"method,omitempty"`
	Path          string    `json:"path,omitempty"`
	StatusCode    int       `json:"status_code,omitempty"`
	IPAddress     string    `json:"ip_address"`
	Device        string    `json:"device"`
	OccurredAt    time.Time `json:"occurred_at"`
	Request       string    `json:"request,omitempty"`
	Response      string    `json:"response,omitempty"`
}

// NewAuditEvent builds the published form of an entry from its record
func NewAuditEvent(entry *models.AuditLogEntry, rec *auditview.Record) AuditEvent {
	fields := auditview.Resolve(rec)
	event := AuditEvent{
		EventID:       entry.EventID,
		Source:        entry.Source,
		EventType:     entry.EventType,
		EventCategory: string(fields.Category),
		Actor:         fields.Username,
		ActorEmail:    fields.Email,
		Method:        entry.Method,
		Path:          entry.Path,
		StatusCode:    entry.StatusCode,
		IPAddress:     fields.IPAddress,
		Device:        fields.Device,
		OccurredAt:    entry.Timestamp.UTC(),
	}
	if !rec.RequestBody.IsNull() {
		event.Request = auditview.RedactJSON(rec.RequestBody)
	}
	if !rec.ResponseBody.IsNull() {
		event.Response = auditview.RedactJSON(rec.ResponseBody)
	}
	return event
}

// RecordFunc rebuilds the untrusted record behind a stored entry
type RecordFunc func(entry *models.AuditLogEntry) *auditview.Record

// KafkaPublisher publishes audit entries to a Kafka topic
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	record   RecordFunc
}

// NewKafkaPublisher connects a producer to bootstrapServers
func NewKafkaPublisher(bootstrapServers, topic string, record RecordFunc) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": bootstrapServers})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.WithFields(log.Fields{
		"bootstrap_servers": bootstrapServers,
		"topic":             topic,
	}).Info("Audit Kafka producer created")

	return &KafkaPublisher{producer: p, topic: topic, record: record}, nil
}

// Publish sends entry and waits for the broker's delivery report
func (p *KafkaPublisher) Publish(ctx context.Context, entry *models.AuditLogEntry) error {
	payload, err := json.Marshal(NewAuditEvent(entry, p.record(entry)))
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(entry.EventID),
		Value:          payload,
	}, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type: %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", msg.TopicPartition.Error)
		}
		return nil
	case <-time.After(deliveryTimeout):
		return fmt.Errorf("delivery timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending messages and closes the producer
func (p *KafkaPublisher) Close() {
	log.Info("Closing audit Kafka producer...")
	if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
		log.WithField("remaining", remaining).Warn("Audit Kafka producer closed with undelivered messages")
	}
	p.producer.Close()
}
