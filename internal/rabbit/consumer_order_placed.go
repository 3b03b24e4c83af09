package rabbit

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"autoparts-backoffice/internal/model"
	"autoparts-backoffice/internal/service"
)

type OrderPlacedConsumer struct {
	Service *service.OrderStatusService
	log     *zap.SugaredLogger
}

func NewOrderPlacedConsumer(s *service.OrderStatusService, log *zap.SugaredLogger) *OrderPlacedConsumer {
	return &OrderPlacedConsumer{Service: s, log: log}
}

// Mensaje que emite checkout al confirmar la compra. Los precios vienen
// ya calculados; acá solo se valida que cierren.
type OrderPlacedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID string `json:"orderId"`
		UserID  string `json:"userId"`
		Items   []struct {
			ProductID     string  `json:"productId"`
			DistributorID string  `json:"distributorId"`
			Quantity      int     `json:"quantity"`
			UnitPrice     float64 `json:"unitPrice"`
		} `json:"items"`
		ItemsPrice    float64 `json:"itemsPrice"`
		TaxPrice      float64 `json:"taxPrice"`
		ShippingPrice float64 `json:"shippingPrice"`
		TotalPrice    float64 `json:"totalPrice"`
	} `json:"message"`
}

func (c *OrderPlacedConsumer) Handle(msg []byte) error {
	var event OrderPlacedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Errorw("mensaje order_placed inválido", "err", err)
		return err
	}

	items := make([]model.OrderItem, 0, len(event.Message.Items))
	for _, it := range event.Message.Items {
		items = append(items, model.OrderItem{
			ProductID:     it.ProductID,
			DistributorID: it.DistributorID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
		})
	}

	_, err := c.Service.SeedOrder(context.Background(), &model.Order{
		OrderID:       event.Message.OrderID,
		UserID:        event.Message.UserID,
		Items:         items,
		ItemsPrice:    event.Message.ItemsPrice,
		TaxPrice:      event.Message.TaxPrice,
		ShippingPrice: event.Message.ShippingPrice,
		TotalPrice:    event.Message.TotalPrice,
	})

	// Checkout puede reintentar el evento; una orden ya inicializada no
	// es un error de este consumer.
	if errors.Is(err, service.ErrOrderAlreadyExists) {
		c.log.Infow("orden ya inicializada", "order_id", event.Message.OrderID)
		return nil
	}
	if err != nil {
		c.log.Errorw("error creando estado inicial", "order_id", event.Message.OrderID, "err", err)
		return err
	}

	c.log.Infow("estado inicial creado", "order_id", event.Message.OrderID, "correlation_id", event.CorrelationID)
	return nil
}
