package handlers

import (
	"strconv"
	"strings"

	"github.com/keyshop-admin/internal/http/response"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"
	"github.com/keyshop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID      uint   `json:"product" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	PriceOverwrite string `json:"price_overwrite"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID uint               `json:"customer" binding:"required"`
	Notes      string             `json:"notes"`
	Items      []OrderItemRequest `json:"items" binding:"required"`
}

// UpdateOrderItemsRequest 更新订单项请求
type UpdateOrderItemsRequest struct {
	Notes string             `json:"notes"`
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderView 订单返回结构；金额由订单项实时求和
type OrderView struct {
	models.Order
	Total models.Money `json:"total"`
}

func toOrderView(order models.Order) OrderView {
	return OrderView{
		Order: order,
		Total: order.Total(),
	}
}

func toItemInputs(items []OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.OrderItemInput{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			PriceOverwrite: item.PriceOverwrite,
		})
	}
	return inputs
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	var customerID uint
	if raw := strings.TrimSpace(c.Query("customer")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID = uint(parsed)
		}
	}
	result, err := h.OrderService.List(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     strings.TrimSpace(c.Query("status")),
		CustomerID: customerID,
	})
	if err != nil {
		respondServiceError(c, err, "获取订单列表失败")
		return
	}

	views := make([]OrderView, 0, len(result.Orders))
	for _, order := range result.Orders {
		views = append(views, toOrderView(order))
	}
	response.SuccessWithPage(c, views, buildPagination(page, pageSize, result.Total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondServiceError(c, err, "获取订单失败")
		return
	}
	response.Success(c, toOrderView(*order))
}

// CreateOrder 创建订单（出库台账同事务落库）
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	order, err := h.OrderService.Create(service.CreateOrderInput{
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
		Items:      toItemInputs(req.Items),
	})
	if err != nil {
		respondServiceError(c, err, "创建订单失败")
		return
	}
	h.DashboardService.Invalidate(c.Request.Context())
	response.Success(c, toOrderView(*order))
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err, "更新订单状态失败")
		return
	}
	h.DashboardService.Invalidate(c.Request.Context())
	response.Success(c, toOrderView(*order))
}

// UpdateOrderItems 更新订单项（台账差额补偿）
func (h *Handler) UpdateOrderItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	order, err := h.OrderService.UpdateItems(id, service.UpdateItemsInput{
		Notes: req.Notes,
		Items: toItemInputs(req.Items),
	})
	if err != nil {
		respondServiceError(c, err, "更新订单失败")
		return
	}
	h.DashboardService.Invalidate(c.Request.Context())
	response.Success(c, toOrderView(*order))
}

// DeleteOrder 删除订单（台账保留）
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.Delete(id); err != nil {
		respondServiceError(c, err, "删除订单失败")
		return
	}
	h.DashboardService.Invalidate(c.Request.Context())
	response.SuccessWithMsg(c, "订单已删除", nil)
}
