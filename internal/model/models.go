// models.go
package model

import "time"

type Order struct {
	OrderID       string      `bson:"order_id" json:"orderId"`
	UserID        string      `bson:"user_id" json:"userId"`
	Status        OrderStatus `bson:"status" json:"status"` // estado actual
	IsPaid        bool        `bson:"is_paid" json:"isPaid"`
	PaidAt        *time.Time  `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	IsDelivered   bool        `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt   *time.Time  `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	Items         []OrderItem `bson:"items" json:"items"`
	ItemsPrice    float64     `bson:"items_price" json:"itemsPrice"`
	TaxPrice      float64     `bson:"tax_price" json:"taxPrice"`
	ShippingPrice float64     `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64     `bson:"total_price" json:"totalPrice"`

	History   []StatusRecord `bson:"history" json:"history"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

type OrderItem struct {
	ProductID     string  `bson:"product_id" json:"productId"`
	DistributorID string  `bson:"distributor_id" json:"distributorId"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	UnitPrice     float64 `bson:"unit_price" json:"unitPrice"`
}

type StatusRecord struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Reason    string      `bson:"reason" json:"reason"`
	ActorID   string      `bson:"actor" json:"actorId"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`

	// Para marcar cuál es el último
	Current bool `bson:"current" json:"current"`
}
