package repository

import (
	"errors"
	"strings"

	"github.com/keyshop-admin/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	List(filter OrderListFilter) ([]models.Order, int64, error)
	GetByID(id uint) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id uint, status string) error
	Update(order *models.Order) error
	Delete(id uint) error
	CountByCustomer(customerID uint) (int64, error)
	ReassignCustomer(fromCustomerID, toCustomerID uint) error
	CreateItems(items []models.OrderItem) error
	ListItemsByOrder(orderID uint) ([]models.OrderItem, error)
	DeleteItemsByOrder(orderID uint) error
	DeleteItemsByProduct(productID uint) error
	CountItemsByProduct(productID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) withJoins(query *gorm.DB) *gorm.DB {
	return query.Preload("Customer").Preload("Items").Preload("Items.Product")
}

// List 订单列表；搜索词匹配关联客户的姓名/手机号
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		operator := likeOperator(r.db)
		query = query.
			Joins(`JOIN customers ON customers.id = orders.customer`).
			Where("customers.name "+operator+" ? OR customers.phone "+operator+" ?", like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" && status != "all" {
		query = query.Where("orders.status = ?", status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("orders.customer = ?", filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := r.withJoins(query).Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByID 根据 ID 获取订单（含客户与订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withJoins(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单行
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// Delete 删除订单行
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

// CountByCustomer 某客户的订单数（删除确认用）
func (r *GormOrderRepository) CountByCustomer(customerID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("customer = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignCustomer 将某客户的全部订单转移给另一客户（软删除占位用）
func (r *GormOrderRepository) ReassignCustomer(fromCustomerID, toCustomerID uint) error {
	return r.db.Model(&models.Order{}).
		Where("customer = ?", fromCustomerID).
		Update("customer", toCustomerID).Error
}

// CreateItems 批量写入订单项
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// ListItemsByOrder 某订单的全部订单项
func (r *GormOrderRepository) ListItemsByOrder(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	// order 是 SQL 保留字，必须加引号
	if err := r.db.Where(`"order" = ?`, orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItemsByOrder 删除某订单的全部订单项
func (r *GormOrderRepository) DeleteItemsByOrder(orderID uint) error {
	return r.db.Where(`"order" = ?`, orderID).Delete(&models.OrderItem{}).Error
}

// DeleteItemsByProduct 删除引用某商品的全部订单项（商品级联删除用）
func (r *GormOrderRepository) DeleteItemsByProduct(productID uint) error {
	return r.db.Where("product = ?", productID).Delete(&models.OrderItem{}).Error
}

// CountItemsByProduct 引用某商品的订单项数（删除确认用）
func (r *GormOrderRepository) CountItemsByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).
		Where("product = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
