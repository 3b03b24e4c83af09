// dto.go
package dto

// Response es el sobre común de todas las respuestas de la API.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

func Fail(msg string) Response {
	return Response{Success: false, Error: msg}
}

// UpdateStatusRequest cambia el estado de una orden. El binding rechaza
// valores fuera del enum antes de llegar al servicio.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped ready_for_pickup delivered cancelled"`
	Reason string `json:"reason"`
}

// SeedOrderRequest inicializa una orden recién creada en checkout.
type SeedOrderRequest struct {
	OrderID       string         `json:"orderId" binding:"required"`
	UserID        string         `json:"userId" binding:"required"`
	Items         []OrderItemDTO `json:"items" binding:"dive"`
	ItemsPrice    float64        `json:"itemsPrice" binding:"gte=0"`
	TaxPrice      float64        `json:"taxPrice" binding:"gte=0"`
	ShippingPrice float64        `json:"shippingPrice" binding:"gte=0"`
	TotalPrice    float64        `json:"totalPrice" binding:"gte=0"`
}

type OrderItemDTO struct {
	ProductID     string  `json:"productId" binding:"required"`
	DistributorID string  `json:"distributorId"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64 `json:"unitPrice" binding:"gte=0"`
}

// PatchUserRequest es la actualización genérica de usuario que el panel
// reutiliza para aprobar/revocar distribuidores. Las claves con punto
// replican el contrato del cliente; approvedAt/approvedBy viajan por
// compatibilidad pero el servidor los estampa con su propio reloj y con
// la identidad del admin autenticado.
type PatchUserRequest struct {
	Role       *string `json:"role"`
	IsApproved *bool   `json:"distributorInfo.isApproved"`
	ApprovedAt *string `json:"distributorInfo.approvedAt"`
	ApprovedBy *string `json:"distributorInfo.approvedBy"`
}
