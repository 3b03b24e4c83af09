package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"autoparts-backoffice/internal/model"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	Save(ctx context.Context, o *model.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, record model.StatusRecord, deliveredAt *time.Time) error
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Order, error)
}

type OrderStatusService struct {
	repo   OrderRepository
	events EventPublisher
	log    *zap.SugaredLogger
}

func NewOrderStatusService(r OrderRepository, events EventPublisher, log *zap.SugaredLogger) *OrderStatusService {
	return &OrderStatusService{repo: r, events: events, log: log}
}

// Tolerancia para comparar totales en float64.
const totalsEpsilon = 0.005

// SeedOrder registra una orden recién creada en checkout. El estado
// inicial es siempre pending, venga lo que venga en el mensaje.
func (s *OrderStatusService) SeedOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	existing, err := s.repo.FindByOrderID(ctx, o.OrderID)
	if err == nil && existing != nil {
		return nil, ErrOrderAlreadyExists
	}

	for _, it := range o.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, ErrInvalidItem
		}
	}
	if o.ItemsPrice < 0 || o.TaxPrice < 0 || o.ShippingPrice < 0 || o.TotalPrice < 0 {
		return nil, ErrInvalidTotals
	}
	if math.Abs(o.TotalPrice-(o.ItemsPrice+o.TaxPrice+o.ShippingPrice)) > totalsEpsilon {
		return nil, ErrInvalidTotals
	}

	o.Status = model.StatusPending
	o.IsDelivered = false
	o.DeliveredAt = nil

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Getters
func (s *OrderStatusService) GetByID(ctx context.Context, session model.Session, orderID string) (*model.Order, error) {
	ord, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Solo el dueño o un admin pueden ver la orden
	if !session.IsAdmin() && ord.UserID != session.UserID {
		return nil, ErrForbidden
	}
	return ord, nil
}

func (s *OrderStatusService) List(ctx context.Context, status *model.OrderStatus) ([]*model.Order, error) {
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		return s.repo.FindByStatus(ctx, *status)
	}
	return s.repo.FindAll(ctx)
}

func (s *OrderStatusService) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// ChangeStatus aplica el cambio de estado pedido por el panel.
//
// No hay matriz de transiciones: cualquier estado se puede fijar desde
// cualquier otro, el panel se usa también para correcciones manuales.
// Pedir el estado que ya está vigente es un no-op idempotente.
func (s *OrderStatusService) ChangeStatus(ctx context.Context, session model.Session, orderID string, newStatus model.OrderStatus, reason string) (*model.Order, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	ord, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if ord.Status == newStatus {
		return ord, nil
	}

	now := time.Now().UTC()
	record := model.StatusRecord{
		Status:    newStatus,
		Reason:    reason,
		ActorID:   session.UserID,
		Timestamp: now,
		Current:   true,
	}

	var deliveredAt *time.Time
	if newStatus == model.StatusDelivered {
		deliveredAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus, record, deliveredAt); err != nil {
		return nil, err
	}

	previous := ord.Status
	ord.Status = newStatus
	ord.UpdatedAt = now
	if deliveredAt != nil {
		ord.IsDelivered = true
		ord.DeliveredAt = deliveredAt
	}
	for i := range ord.History {
		ord.History[i].Current = false
	}
	ord.History = append(ord.History, record)

	s.publish(ctx, EventOrderStatusChanged, OrderStatusChangedEvent{
		OrderID:   orderID,
		Previous:  previous,
		Status:    newStatus,
		ActorID:   session.UserID,
		Timestamp: now,
	})

	return ord, nil
}

// La mutación ya quedó persistida: un fallo al publicar se loguea y no
// se propaga al panel.
func (s *OrderStatusService) publish(ctx context.Context, key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Errorw("error publicando evento", "routing_key", key, "err", err)
	}
}
