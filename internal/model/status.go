// status.go
package model

// OrderStatus es el estado de avance de una orden.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type statusBadge struct {
	label string
	color string
}

// Etiqueta y color que muestra el panel por cada estado.
var statusBadges = map[OrderStatus]statusBadge{
	StatusPending:        {"Pendiente", "yellow"},
	StatusProcessing:     {"Procesando", "blue"},
	StatusShipped:        {"Enviado", "purple"},
	StatusReadyForPickup: {"Listo para Retiro", "indigo"},
	StatusDelivered:      {"Entregado", "green"},
	StatusCancelled:      {"Cancelado", "red"},
}

// Valid reports whether s is one of the six recognized statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusBadges[s]
	return ok
}

// Terminal reports whether no further transition is expected from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label returns the Spanish display label for s, or "" if unknown.
func (s OrderStatus) Label() string {
	return statusBadges[s].label
}

// BadgeColor returns the badge color the panel renders for s.
func (s OrderStatus) BadgeColor() string {
	return statusBadges[s].color
}

// OrderStatuses lists the recognized statuses in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusProcessing,
		StatusShipped,
		StatusReadyForPickup,
		StatusDelivered,
		StatusCancelled,
	}
}
