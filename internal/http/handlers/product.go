package handlers

import (
	"strings"

	"github.com/keyshop-admin/internal/http/response"
	"github.com/keyshop-admin/internal/repository"
	"github.com/keyshop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Price string `json:"price" binding:"required"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title: r.Title,
		Type:  r.Type,
		Price: r.Price,
	}
}

// ListProducts 商品列表（附实时库存）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	result, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Type:     strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondServiceError(c, err, "获取商品列表失败")
		return
	}
	response.SuccessWithPage(c, result.Products, buildPagination(page, pageSize, result.Total))
}

// GetProduct 商品详情（附实时库存）
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondServiceError(c, err, "获取商品失败")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "创建商品失败")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "更新商品失败")
		return
	}
	response.Success(c, product)
}

// GetProductDeletionImpact 删除商品前的影响范围
func (h *Handler) GetProductDeletionImpact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	impact, err := h.ProductService.DeletionImpact(id)
	if err != nil {
		respondServiceError(c, err, "获取删除影响失败")
		return
	}
	response.Success(c, impact)
}

// DeleteProduct 删除商品（级联删除台账与订单项）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondServiceError(c, err, "删除商品失败")
		return
	}
	response.SuccessWithMsg(c, "商品已删除", nil)
}
