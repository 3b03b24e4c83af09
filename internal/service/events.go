package service

import (
	"context"
	"time"

	"autoparts-backoffice/internal/model"
)

// EventPublisher publica eventos de dominio luego de una mutación
// confirmada. Reemplaza al polling del panel: los componentes que antes
// releían el almacenamiento cada pocos segundos ahora se suscriben.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

const (
	EventOrderStatusChanged        = "order.status_changed"
	EventDistributorApprovalChange = "distributor.approval_changed"
)

type OrderStatusChangedEvent struct {
	OrderID   string            `json:"orderId"`
	Previous  model.OrderStatus `json:"previous"`
	Status    model.OrderStatus `json:"status"`
	ActorID   string            `json:"actorId"`
	Timestamp time.Time         `json:"timestamp"`
}

type DistributorApprovalEvent struct {
	UserID     string     `json:"userId"`
	IsApproved bool       `json:"isApproved"`
	ApprovedBy *string    `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
