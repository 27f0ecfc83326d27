package handlers

import (
	"strconv"
	"strings"

	"github.com/keyshop-admin/internal/http/response"
	"github.com/keyshop-admin/internal/repository"
	"github.com/keyshop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// StockInRequest 入库请求
type StockInRequest struct {
	ProductID uint   `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Price     string `json:"price" binding:"required"`
	Notes     string `json:"notes"`
}

// InventoryRecordRequest 修正台账行请求
type InventoryRecordRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Price    string `json:"price"`
	Notes    string `json:"notes"`
}

// ListInventoryRecords 台账列表
func (h *Handler) ListInventoryRecords(c *gin.Context) {
	page, pageSize := parsePagination(c)
	var productID uint
	if raw := strings.TrimSpace(c.Query("product")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			productID = uint(parsed)
		}
	}
	result, err := h.InventoryService.ListRecords(repository.InventoryListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
	if err != nil {
		respondServiceError(c, err, "获取库存记录失败")
		return
	}
	response.SuccessWithPage(c, result.Records, buildPagination(page, pageSize, result.Total))
}

// GetProductStock 某商品当前库存
func (h *Handler) GetProductStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	stock, err := h.InventoryService.Stock(id)
	if err != nil {
		respondServiceError(c, err, "获取库存失败")
		return
	}
	response.Success(c, gin.H{"product": id, "stock": stock})
}

// GetProductInventoryHistory 某商品的完整台账
func (h *Handler) GetProductInventoryHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	records, err := h.InventoryService.History(id)
	if err != nil {
		respondServiceError(c, err, "获取库存历史失败")
		return
	}
	response.Success(c, records)
}

// StockIn 入库
func (h *Handler) StockIn(c *gin.Context) {
	var req StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	record, err := h.InventoryService.StockIn(service.StockInInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "入库失败")
		return
	}
	response.Success(c, record)
}

// UpdateInventoryRecord 修正历史台账行
func (h *Handler) UpdateInventoryRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req InventoryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不正确", err)
		return
	}
	record, err := h.InventoryService.EditRecord(id, service.EditRecordInput{
		Quantity: req.Quantity,
		Price:    req.Price,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "更新库存记录失败")
		return
	}
	response.Success(c, record)
}

// DeleteInventoryRecord 删除台账行
func (h *Handler) DeleteInventoryRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.InventoryService.DeleteRecord(id); err != nil {
		respondServiceError(c, err, "删除库存记录失败")
		return
	}
	response.SuccessWithMsg(c, "库存记录已删除", nil)
}
