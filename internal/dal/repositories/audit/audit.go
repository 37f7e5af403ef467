package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/kashan660/sellaap-orders/internal/dal/interfaces/ioutboxrepo"
	"github.com/kashan660/sellaap-orders/internal/dal/rabbitmq"
	"github.com/kashan660/sellaap-orders/internal/service/models/order"
	"github.com/kashan660/sellaap-orders/internal/service/models/outbox"
)

const (
	queueOrderCreated    = "oms.order.created"
	eventTypeCreated     = "order.created"
	defaultMaxRetries    = 5
	defaultRetryInterval = 30 * time.Second
)

// orderCreatedEvent is the envelope published for every accepted order.
type orderCreatedEvent struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType"`
	EmittedAt time.Time   `json:"emittedAt"`
	Order     order.Order `json:"order"`
}

// AuditRabbitMQRepository publishes order lifecycle events for the
// reconciliation back office. A failed publish lands in the outbox and is
// retried by the outbox worker; the order submission itself never fails
// because of audit delivery.
type AuditRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	queue      amqp.Queue
}

func NewAuditRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueOrderCreated,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		queue:      queue,
	}
}

// LogOrderCreated emits an order.created event. On broker failure the
// payload is parked in the outbox for the worker to republish.
func (r *AuditRabbitMQRepository) LogOrderCreated(ctx context.Context, o order.Order) error {
	event := orderCreatedEvent{
		EventID:   uuid.NewString(),
		EventType: eventTypeCreated,
		EmittedAt: time.Now(),
		Order:     o,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	publishErr := r.client.Publish("", r.queue.Name, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   event.EventID,
		Body:        payload,
	})
	if publishErr == nil {
		return nil
	}

	slog.Warn("Failed to publish order created event, parking in outbox",
		"order_id", o.ID,
		"error", publishErr,
	)

	now := time.Now()
	msg := outbox.OutboxMessage{
		QueueName:   r.queue.Name,
		RoutingKey:  r.queue.Name,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  defaultMaxRetries,
		LastError:   publishErr.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now.Add(defaultRetryInterval),
	}

	if err := r.outboxRepo.Insert(ctx, msg); err != nil {
		return fmt.Errorf("failed to park order created event in outbox: %w", err)
	}

	return nil
}
