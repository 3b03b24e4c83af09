// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"autoparts-backoffice/internal/service"
)

func SetupConsumers(ch *amqp091.Channel, svc *service.OrderStatusService, log *zap.SugaredLogger) {
	consumer := NewOrderPlacedConsumer(svc, log)

	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		"backoffice_order_placed", // cola exclusiva de este servicio
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Errorw("error declarando queue", "err", err)
		return
	}

	// 2. Bindear al exchange fanout de checkout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		"order_placed",
		false,
		nil,
	)
	if err != nil {
		log.Errorw("error binding exchange", "err", err)
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Errorw("error al consumir queue", "err", err)
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Infow("suscrito a exchange order_placed")
}
