package service

import (
	"fmt"
	"strings"

	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/queue"
	"github.com/keyshop-admin/internal/repository"

	"gorm.io/gorm"
)

// 订单状态机：pending 可流转到 fulfilled/canceled，两者均为终态
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusFulfilled: true,
		constants.OrderStatusCanceled:  true,
	},
}

var validOrderStatuses = map[string]bool{
	constants.OrderStatusPending:   true,
	constants.OrderStatusFulfilled: true,
	constants.OrderStatusCanceled:  true,
}

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	customerRepo     repository.CustomerRepository
	productRepo      repository.ProductRepository
	inventoryRepo    repository.InventoryRepository
	inventoryService *InventoryService
	queueClient      *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, inventoryService *InventoryService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		customerRepo:     customerRepo,
		productRepo:      productRepo,
		inventoryRepo:    inventoryRepo,
		inventoryService: inventoryService,
		queueClient:      queueClient,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID uint
	Notes      string
	Items      []OrderItemInput
}

// OrderItemInput 订单项输入；PriceOverwrite 为空时冻结商品当前售价
type OrderItemInput struct {
	ProductID      uint
	Quantity       int
	PriceOverwrite string
}

// UpdateItemsInput 更新订单项输入
type UpdateItemsInput struct {
	Notes string
	Items []OrderItemInput
}

// OrderList 订单列表结果
type OrderList struct {
	Orders     []models.Order
	Total      int64
	TotalPages int
}

// outboundNote 出库台账自动备注
func outboundNote(quantity int) string {
	return fmt.Sprintf("订单出库 - %d 件", quantity)
}

// returnNote 退回台账自动备注
func returnNote(quantity int) string {
	return fmt.Sprintf("订单退回 - %d 件", quantity)
}

// List 订单列表（每个订单附带计算出的金额）
func (s *OrderService) List(filter repository.OrderListFilter) (*OrderList, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &OrderList{
		Orders:     orders,
		Total:      total,
		TotalPages: int(repository.TotalPages(total, filter.PageSize)),
	}, nil
}

// Get 订单详情
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// resolveItems 校验订单项并冻结单价
func (s *OrderService) resolveItems(inputs []OrderItemInput) ([]models.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, ErrOrderItemsRequired
	}
	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == 0 || input.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		product, err := s.productRepo.GetByID(input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		price := product.Price
		if raw := strings.TrimSpace(input.PriceOverwrite); raw != "" {
			price, err = models.ParseMoney(raw)
			if err != nil {
				return nil, ErrInvalidPrice
			}
		}
		items = append(items, models.OrderItem{
			ProductID:      input.ProductID,
			Quantity:       input.Quantity,
			PriceOverwrite: price,
		})
	}
	return items, nil
}

// Create 创建订单：订单行、订单项、出库台账在一个事务里落库。
// 每个订单项追加一条负数台账行，库存因此自然下降；订单行记录
// 首条台账行 ID。允许超卖，库存可为负。
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, error) {
	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	items, err := s.resolveItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID: input.CustomerID,
		Status:     constants.OrderStatusPending,
		Notes:      strings.TrimSpace(input.Notes),
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		inventoryTx := s.inventoryRepo.WithTx(tx)
		productTx := s.productRepo.WithTx(tx)

		if err := orderTx.Create(order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orderTx.CreateItems(items); err != nil {
			return err
		}

		for i, item := range items {
			record := models.InventoryRecord{
				ProductID: item.ProductID,
				Quantity:  -item.Quantity,
				Price:     item.PriceOverwrite,
				Notes:     outboundNote(item.Quantity),
			}
			if err := inventoryTx.Create(&record); err != nil {
				return err
			}
			if i == 0 {
				recordID := record.ID
				order.InventoryID = &recordID
				if err := orderTx.Update(order); err != nil {
					return err
				}
			}
			if err := productTx.TouchUpdatedAt(item.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"items", len(items),
	)
	for _, item := range items {
		s.inventoryService.CheckLowStock(item.ProductID)
	}
	return s.Get(order.ID)
}

// UpdateStatus 更新订单状态；只允许 pending -> fulfilled/canceled
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if !validOrderStatuses[status] {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == status {
		return order, nil
	}
	if !allowedTransitions[order.Status][status] {
		return nil, ErrStatusNotTransitable
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	logger.Infow("order_status_changed",
		"order_id", id,
		"from", order.Status,
		"to", status,
	)
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:    id,
		FromStatus: order.Status,
		ToStatus:   status,
	}); err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", id, "error", err)
	}
	return s.Get(id)
}

// UpdateItems 替换订单项并按商品差额补偿台账：数量增加追加负数
// 出库行，数量减少追加正数退回行。历史台账行不回改。
func (s *OrderService) UpdateItems(id uint, input UpdateItemsInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	items, err := s.resolveItems(input.Items)
	if err != nil {
		return nil, err
	}

	oldQuantities := make(map[uint]int)
	for _, item := range order.Items {
		oldQuantities[item.ProductID] += item.Quantity
	}
	newQuantities := make(map[uint]int)
	for _, item := range items {
		newQuantities[item.ProductID] += item.Quantity
	}

	touched := make(map[uint]bool)
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		inventoryTx := s.inventoryRepo.WithTx(tx)
		productTx := s.productRepo.WithTx(tx)

		if err := orderTx.DeleteItemsByOrder(id); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = id
		}
		if err := orderTx.CreateItems(items); err != nil {
			return err
		}

		for productID, newQty := range newQuantities {
			if err := applyQuantityDelta(inventoryTx, productID, oldQuantities[productID], newQty); err != nil {
				return err
			}
			touched[productID] = true
		}
		for productID, oldQty := range oldQuantities {
			if _, ok := newQuantities[productID]; ok {
				continue
			}
			if err := applyQuantityDelta(inventoryTx, productID, oldQty, 0); err != nil {
				return err
			}
			touched[productID] = true
		}

		for productID := range touched {
			if err := productTx.TouchUpdatedAt(productID); err != nil {
				return err
			}
		}

		order.Notes = strings.TrimSpace(input.Notes)
		return orderTx.Update(order)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_items_updated", "order_id", id, "items", len(items))
	for productID := range touched {
		s.inventoryService.CheckLowStock(productID)
	}
	return s.Get(id)
}

// applyQuantityDelta 按新旧数量差额追加补偿台账行
func applyQuantityDelta(inventoryRepo repository.InventoryRepository, productID uint, oldQty, newQty int) error {
	delta := newQty - oldQty
	if delta == 0 {
		return nil
	}
	record := models.InventoryRecord{
		ProductID: productID,
		Quantity:  -delta,
	}
	if delta > 0 {
		record.Notes = outboundNote(delta)
	} else {
		record.Notes = returnNote(-delta)
	}
	return inventoryRepo.Create(&record)
}

// Delete 删除订单及其订单项；出库台账行保留，库存不回滚
func (s *OrderService) Delete(id uint) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		if err := orderTx.DeleteItemsByOrder(id); err != nil {
			return err
		}
		return orderTx.Delete(id)
	})
	if err != nil {
		return err
	}
	logger.Infow("order_deleted", "order_id", id, "customer_id", order.CustomerID)
	return nil
}
