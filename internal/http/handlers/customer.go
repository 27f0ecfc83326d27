package handlers

import (
	"strings"

	"github.com/keyshop-admin/internal/http/response"
	"github.com/keyshop-admin/internal/repository"
	"github.com/keyshop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerRequest 创建/更新客户请求
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r CustomerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		Notes:   r.Notes,
	}
}

// ListCustomers 客户列表
func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	result, err := h.CustomerService.List(repository.CustomerListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        strings.TrimSpace(c.Query("search")),
		SortColumn:    strings.TrimSpace(c.Query("sort_by")),
		SortDirection: strings.TrimSpace(c.Query("sort_dir")),
	})
	if err != nil {
		respondServiceError(c, err, "获取客户列表失败")
		return
	}
	response.SuccessWithPage(c, result.Customers, buildPagination(page, pageSize, result.Total))
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.CustomerService.Get(id)
	if err != nil {
		respondServiceError(c, err, "获取客户失败")
		return
	}
	response.Success(c, customer)
}

// CreateCustomer 创建客户
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	customer, err := h.CustomerService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "创建客户失败")
		return
	}
	response.Success(c, customer)
}

// UpdateCustomer 更新客户
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	customer, err := h.CustomerService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "更新客户失败")
		return
	}
	response.Success(c, customer)
}

// GetCustomerOrderCount 客户名下订单数（删除前确认）
func (h *Handler) GetCustomerOrderCount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	count, err := h.CustomerService.OrderCount(id)
	if err != nil {
		respondServiceError(c, err, "获取订单数失败")
		return
	}
	response.Success(c, gin.H{"order_count": count})
}

// DeleteCustomer 删除客户（订单转移至占位客户）
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CustomerService.Delete(id); err != nil {
		respondServiceError(c, err, "删除客户失败")
		return
	}
	response.SuccessWithMsg(c, "客户已删除", nil)
}
