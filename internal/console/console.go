// console.go
package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"autoparts-backoffice/internal/model"
)

var (
	ErrInvalidStatus    = errors.New("estado fuera del enum de órdenes")
	ErrUnknownOrder     = errors.New("la orden no está cargada en el panel")
	ErrUnknownUser      = errors.New("el usuario no está cargado en el panel")
	ErrMutationInFlight = errors.New("ya hay un cambio en curso para esa orden")
	ErrNotDistributor   = errors.New("el usuario no tiene rol distribuidor")
	ErrNotApproved      = errors.New("el distribuidor no está aprobado")
	ErrMissingAdmin     = errors.New("no se pudo resolver la identidad del admin")
	ErrNoPendingAction  = errors.New("no hay ninguna acción esperando confirmación")
	ErrConfirmationBusy = errors.New("ya hay una acción esperando confirmación")
)

// ApprovalAction es la intención que queda esperando confirmación.
type ApprovalAction struct {
	UserID  string
	Approve bool // false = revocar
}

// Console mantiene la copia local de órdenes y distribuidores que el
// panel muestra. La copia solo se reemplaza después de una respuesta
// confirmada del backend, nunca de forma optimista. Los cambios de
// estado llevan un flag de "en curso" por orden: operar sobre una orden
// no bloquea a las demás.
type Console struct {
	api *APIClient
	log *zap.SugaredLogger

	mu       sync.Mutex
	orders   map[string]*model.Order
	users    map[string]*model.User
	inflight map[string]bool
	pending  *ApprovalAction
}

func New(api *APIClient, log *zap.SugaredLogger) *Console {
	return &Console{
		api:      api,
		log:      log,
		orders:   make(map[string]*model.Order),
		users:    make(map[string]*model.User),
		inflight: make(map[string]bool),
	}
}

// LoadOrders refresca la lista completa de órdenes.
func (c *Console) LoadOrders(ctx context.Context) error {
	orders, err := c.api.ListOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = make(map[string]*model.Order, len(orders))
	for _, o := range orders {
		c.orders[o.OrderID] = o
	}
	return nil
}

// LoadDistributors trae los usuarios y filtra por rol distribuidor.
func (c *Console) LoadDistributors(ctx context.Context) error {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = make(map[string]*model.User)
	for _, u := range users {
		if u.Role == model.RoleDistributor {
			c.users[u.ID] = u
		}
	}
	return nil
}

// Order devuelve la copia cacheada de una orden.
func (c *Console) Order(orderID string) (*model.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[orderID]
	return o, ok
}

// User devuelve la copia cacheada de un distribuidor.
func (c *Console) User(userID string) (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[userID]
	return u, ok
}

// Busy indica si hay un cambio de estado en vuelo para esa orden.
func (c *Console) Busy(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[orderID]
}

// Badge devuelve etiqueta y color del estado cacheado de la orden.
func (c *Console) Badge(orderID string) (label, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[orderID]
	if !ok {
		return "", ""
	}
	return o.Status.Label(), o.Status.BadgeColor()
}

// ChangeStatus muta el estado de una orden. Un valor fuera del enum se
// rechaza antes de salir a la red; el estado ya vigente es un no-op (el
// menú deshabilita la opción). El flag en vuelo se limpia siempre, haya
// éxito o fallo, y la cache se reemplaza solo con la orden confirmada.
func (c *Console) ChangeStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	c.mu.Lock()
	cur, ok := c.orders[orderID]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownOrder
	}
	if cur.Status == status {
		c.mu.Unlock()
		return nil
	}
	if c.inflight[orderID] {
		c.mu.Unlock()
		return ErrMutationInFlight
	}
	c.inflight[orderID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, orderID)
		c.mu.Unlock()
	}()

	updated, err := c.api.UpdateOrderStatus(ctx, orderID, status, "")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// La orden ya no existe server-side: sacar la fila.
			c.mu.Lock()
			delete(c.orders, orderID)
			c.mu.Unlock()
		}
		c.log.Warnw("cambio de estado fallido", "order_id", orderID, "status", status, "err", err)
		return err
	}

	c.mu.Lock()
	c.orders[orderID] = updated
	c.mu.Unlock()
	return nil
}

// RequestApproval deja una aprobación esperando confirmación explícita.
func (c *Console) RequestApproval(userID string) error {
	return c.stage(userID, true)
}

// RequestRevocation deja una revocación esperando confirmación. Solo
// tiene sentido sobre un distribuidor ya aprobado.
func (c *Console) RequestRevocation(userID string) error {
	c.mu.Lock()
	u, ok := c.users[userID]
	c.mu.Unlock()
	if ok {
		badge := model.DistributorStatus(u)
		if badge != nil && badge.State != model.ApprovalApproved {
			return ErrNotApproved
		}
	}
	return c.stage(userID, false)
}

func (c *Console) stage(userID string, approve bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.users[userID]
	if !ok {
		return ErrUnknownUser
	}
	if u.Role != model.RoleDistributor {
		return ErrNotDistributor
	}
	if c.pending != nil {
		return ErrConfirmationBusy
	}
	c.pending = &ApprovalAction{UserID: userID, Approve: approve}
	return nil
}

// Pending devuelve la acción esperando confirmación, si hay alguna.
func (c *Console) Pending() (ApprovalAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ApprovalAction{}, false
	}
	return *c.pending, true
}

// CancelPending descarta la intención sin llamar al backend.
func (c *Console) CancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ConfirmPending ejecuta la acción confirmada con la identidad del admin
// que la dispara. Sin identidad resuelta no se emite ninguna llamada. La
// intención pendiente se descarta en todos los caminos.
func (c *Console) ConfirmPending(ctx context.Context, admin model.Session) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return ErrNoPendingAction
	}
	action := *c.pending
	c.pending = nil
	c.mu.Unlock()

	if admin.UserID == "" {
		return ErrMissingAdmin
	}

	var (
		updated *model.User
		err     error
	)
	if action.Approve {
		now := time.Now().UTC()
		adminID := admin.UserID
		updated, err = c.api.PatchUserApproval(ctx, action.UserID, true, &now, &adminID)
	} else {
		updated, err = c.api.PatchUserApproval(ctx, action.UserID, false, nil, nil)
	}
	if err != nil {
		c.log.Warnw("mutación de aprobación fallida", "user_id", action.UserID, "approve", action.Approve, "err", err)
		return err
	}

	// Solo se actualiza la fila afectada, sin recargar la lista.
	c.mu.Lock()
	c.users[action.UserID] = updated
	c.mu.Unlock()
	return nil
}
