package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-backoffice/internal/dto"
	"autoparts-backoffice/internal/middleware"
	"autoparts-backoffice/internal/model"
	"autoparts-backoffice/internal/service"
)

type OrderController struct {
	Service *service.OrderStatusService
}

func NewOrderController(s *service.OrderStatusService) *OrderController {
	return &OrderController{Service: s}
}

// PUT /orders/:orderId/status — admin only
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	session, _ := middleware.SessionFrom(c)

	ord, err := ctl.Service.ChangeStatus(
		c.Request.Context(),
		session,
		orderID,
		model.OrderStatus(req.Status),
		req.Reason,
	)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, ord)
}

// GET /orders — admin only, acepta ?status= para filtrar
func (ctl *OrderController) ListOrders(c *gin.Context) {
	var status *model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		st := model.OrderStatus(raw)
		status = &st
	}

	orders, err := ctl.Service.List(c.Request.Context(), status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

// GET /orders/mine
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	orders, err := ctl.Service.ListByUser(c.Request.Context(), session.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

// GET /orders/:orderId — dueño o admin
func (ctl *OrderController) GetOrder(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	ord, err := ctl.Service.GetByID(c.Request.Context(), session, c.Param("orderId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, ord)
}

// POST /orders/seed — admin only. Alta manual para pruebas; el camino
// normal es el consumer de order_placed.
func (ctl *OrderController) SeedOrder(c *gin.Context) {
	var req dto.SeedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{
			ProductID:     it.ProductID,
			DistributorID: it.DistributorID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
		})
	}

	ord, err := ctl.Service.SeedOrder(c.Request.Context(), &model.Order{
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Items:         items,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, ord)
}
