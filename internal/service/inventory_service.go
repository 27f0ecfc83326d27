package service

import (
	"fmt"
	"strings"

	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/queue"
	"github.com/keyshop-admin/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存服务
type InventoryService struct {
	inventoryRepo     repository.InventoryRepository
	productRepo       repository.ProductRepository
	queueClient       *queue.Client
	lowStockThreshold int64
}

// NewInventoryService 创建库存服务
func NewInventoryService(inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository, queueClient *queue.Client, lowStockThreshold int64) *InventoryService {
	return &InventoryService{
		inventoryRepo:     inventoryRepo,
		productRepo:       productRepo,
		queueClient:       queueClient,
		lowStockThreshold: lowStockThreshold,
	}
}

// StockInInput 入库输入
type StockInInput struct {
	ProductID uint
	Quantity  int
	Price     string
	Notes     string
}

// EditRecordInput 修正台账行输入
type EditRecordInput struct {
	Quantity int
	Price    string
	Notes    string
}

// InventoryList 台账列表结果
type InventoryList struct {
	Records    []models.InventoryRecord
	Total      int64
	TotalPages int
}

// ListRecords 台账列表（全局分页）
func (s *InventoryService) ListRecords(filter repository.InventoryListFilter) (*InventoryList, error) {
	records, total, err := s.inventoryRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &InventoryList{
		Records:    records,
		Total:      total,
		TotalPages: int(repository.TotalPages(total, filter.PageSize)),
	}, nil
}

// History 某商品的完整台账（新在前）
func (s *InventoryService) History(productID uint) ([]models.InventoryRecord, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.inventoryRepo.ListByProduct(productID)
}

// Stock 某商品当前库存（台账求和，不缓存）
func (s *InventoryService) Stock(productID uint) (int64, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	return s.inventoryRepo.SumByProduct(productID)
}

// StockIn 入库：追加一条正数台账行。数量必须大于 0，进货单价必填。
func (s *InventoryService) StockIn(input StockInInput) (*models.InventoryRecord, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidStockQuantity
	}
	if strings.TrimSpace(input.Price) == "" {
		return nil, ErrStockPriceRequired
	}
	price, err := models.ParseMoney(input.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	record := &models.InventoryRecord{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Price:     price,
		Notes:     strings.TrimSpace(input.Notes),
	}
	err = s.inventoryRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.inventoryRepo.WithTx(tx).Create(record); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).TouchUpdatedAt(input.ProductID)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("stock_in",
		"product_id", input.ProductID,
		"quantity", input.Quantity,
		"record_id", record.ID,
	)
	return record, nil
}

// EditRecord 修正历史台账行；数量可为负（出库修正），为 0 视为非法
func (s *InventoryService) EditRecord(id uint, input EditRecordInput) (*models.InventoryRecord, error) {
	record, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInventoryNotFound
	}
	if input.Quantity == 0 {
		return nil, ErrInvalidStockQuantity
	}

	record.Quantity = input.Quantity
	record.Notes = strings.TrimSpace(input.Notes)
	if strings.TrimSpace(input.Price) != "" {
		price, err := models.ParseMoney(input.Price)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		record.Price = price
	}
	if err := s.inventoryRepo.Update(record); err != nil {
		return nil, err
	}
	s.CheckLowStock(record.ProductID)
	return record, nil
}

// DeleteRecord 删除台账行；库存在下次读取时自动重算
func (s *InventoryService) DeleteRecord(id uint) error {
	record, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInventoryNotFound
	}
	if err := s.inventoryRepo.Delete(id); err != nil {
		return err
	}
	logger.Infow("inventory_record_deleted",
		"record_id", id,
		"product_id", record.ProductID,
		"quantity", record.Quantity,
	)
	s.CheckLowStock(record.ProductID)
	return nil
}

// CheckLowStock 库存变动后检查阈值，低于阈值则推送提醒任务。
// 提醒失败只记日志，不影响主流程。
func (s *InventoryService) CheckLowStock(productID uint) {
	if !s.queueClient.Enabled() {
		return
	}
	stock, err := s.inventoryRepo.SumByProduct(productID)
	if err != nil {
		logger.Warnw("low_stock_check_failed", "product_id", productID, "error", err)
		return
	}
	if stock > s.lowStockThreshold {
		return
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return
	}
	payload := queue.StockLowAlertPayload{
		ProductID: productID,
		Title:     product.Title,
		Stock:     stock,
		Threshold: s.lowStockThreshold,
	}
	if err := s.queueClient.EnqueueStockLowAlert(payload); err != nil {
		logger.Warnw("stock_low_alert_enqueue_failed",
			"product_id", productID,
			"error", fmt.Sprintf("%v", err),
		)
	}
}
