package repository

import (
	"errors"

	"github.com/keyshop-admin/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存台账数据访问接口
type InventoryRepository interface {
	List(filter InventoryListFilter) ([]models.InventoryRecord, int64, error)
	ListByProduct(productID uint) ([]models.InventoryRecord, error)
	GetByID(id uint) (*models.InventoryRecord, error)
	Create(record *models.InventoryRecord) error
	CreateBatch(records []models.InventoryRecord) error
	Update(record *models.InventoryRecord) error
	Delete(id uint) error
	DeleteByProduct(productID uint) error
	SumByProduct(productID uint) (int64, error)
	SumByProducts(productIDs []uint) (map[uint]int64, error)
	CountByProduct(productID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存台账仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInventoryRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 台账列表（全局分页，按创建时间倒序）
func (r *GormInventoryRepository) List(filter InventoryListFilter) ([]models.InventoryRecord, int64, error) {
	var records []models.InventoryRecord

	query := r.db.Model(&models.InventoryRecord{})
	if filter.ProductID != 0 {
		query = query.Where("product = ?", filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Product").
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByProduct 某商品的完整台账（新在前）
func (r *GormInventoryRepository) ListByProduct(productID uint) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.Where("product = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID 根据 ID 获取台账行
func (r *GormInventoryRepository) GetByID(id uint) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create 追加台账行
func (r *GormInventoryRepository) Create(record *models.InventoryRecord) error {
	return r.db.Create(record).Error
}

// CreateBatch 批量追加台账行
func (r *GormInventoryRepository) CreateBatch(records []models.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// Update 修正历史台账行
func (r *GormInventoryRepository) Update(record *models.InventoryRecord) error {
	return r.db.Save(record).Error
}

// Delete 删除台账行（库存在下次读取时自动重算）
func (r *GormInventoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.InventoryRecord{}, id).Error
}

// DeleteByProduct 删除某商品的全部台账行（商品级联删除用）
func (r *GormInventoryRepository) DeleteByProduct(productID uint) error {
	return r.db.Where("product = ?", productID).Delete(&models.InventoryRecord{}).Error
}

// SumByProduct 某商品当前库存 = 台账 quantity 求和
func (r *GormInventoryRepository) SumByProduct(productID uint) (int64, error) {
	var stock int64
	if err := r.db.Model(&models.InventoryRecord{}).
		Where("product = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}

// SumByProducts 批量求库存，避免列表页 N+1 查询
func (r *GormInventoryRepository) SumByProducts(productIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		ProductID uint  `gorm:"column:product"`
		Stock     int64 `gorm:"column:stock"`
	}
	if err := r.db.Model(&models.InventoryRecord{}).
		Select("product, COALESCE(SUM(quantity), 0) AS stock").
		Where("product IN ?", productIDs).
		Group("product").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProductID] = row.Stock
	}
	return result, nil
}

// CountByProduct 某商品的台账行数（删除确认用）
func (r *GormInventoryRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.InventoryRecord{}).
		Where("product = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
