// publisher.go
package rabbit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const eventsExchange = "domain.events"

// Publisher emite los eventos de dominio a un exchange topic. Cada
// mutación confirmada (cambio de estado, aprobación) publica aquí en
// lugar de que el panel haga polling del almacenamiento.
type Publisher struct {
	ch  *amqp091.Channel
	log *zap.SugaredLogger
}

type eventEnvelope struct {
	CorrelationID string `json:"correlation_id"`
	RoutingKey    string `json:"routing_key"`
	Message       any    `json:"message"`
}

func NewPublisher(ch *amqp091.Channel, log *zap.SugaredLogger) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		eventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, event any) error {
	env := eventEnvelope{
		CorrelationID: uuid.NewString(),
		RoutingKey:    routingKey,
		Message:       event,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, eventsExchange, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return err
	}

	p.log.Infow("evento publicado", "routing_key", routingKey, "correlation_id", env.CorrelationID)
	return nil
}
