package repository

import (
	"time"

	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
	GetMonthlyTrends(startAt, endAt time.Time) ([]DashboardMonthlyTrendRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
	GetLowStock(threshold int64, limit int) ([]DashboardLowStockRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	CustomersTotal int64
	ProductsTotal  int64
	OrdersTotal    int64
	PendingOrders  int64
	Revenue        float64
}

// DashboardMonthlyTrendRow 按月营收/订单趋势
type DashboardMonthlyTrendRow struct {
	Month   string
	Revenue float64
	Orders  int64
}

// DashboardProductRankingRow 商品销量排行原始行
type DashboardProductRankingRow struct {
	ProductID uint
	Title     string
	Quantity  int64
	Revenue   float64
}

// DashboardLowStockRow 低库存商品原始行
type DashboardLowStockRow struct {
	ProductID uint
	Title     string
	Type      string
	Stock     int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.Customer{}).
		Where("name <> ?", constants.DeletedCustomerName).
		Count(&result.CustomersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Count(&result.ProductsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusPending).
		Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.OrderItem{}).
		Select("COALESCE(SUM(price_overwrite * quantity), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetMonthlyTrends 按月聚合营收与订单量
func (r *GormDashboardRepository) GetMonthlyTrends(startAt, endAt time.Time) ([]DashboardMonthlyTrendRow, error) {
	var rows []DashboardMonthlyTrendRow
	monthExpr := monthBucketExpr(r.db, "orders.created_at")
	err := r.db.Model(&models.Order{}).
		Select(monthExpr+` AS month,
			COALESCE(SUM(order_items.price_overwrite * order_items.quantity), 0) AS revenue,
			COUNT(DISTINCT orders.id) AS orders`).
		Joins(`LEFT JOIN order_items ON order_items."order" = orders.id`).
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt).
		Group(monthExpr).
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts 按销量排序的商品排行
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardProductRankingRow
	err := r.db.Model(&models.OrderItem{}).
		Select(`order_items.product AS product_id,
			products.title AS title,
			COALESCE(SUM(order_items.quantity), 0) AS quantity,
			COALESCE(SUM(order_items.price_overwrite * order_items.quantity), 0) AS revenue`).
		Joins(`JOIN orders ON orders.id = order_items."order"`).
		Joins("JOIN products ON products.id = order_items.product").
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt).
		Group("order_items.product, products.title").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLowStock 当前库存不高于阈值的商品
func (r *GormDashboardRepository) GetLowStock(threshold int64, limit int) ([]DashboardLowStockRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardLowStockRow
	err := r.db.Model(&models.Product{}).
		Select(`products.id AS product_id,
			products.title AS title,
			products.type AS type,
			COALESCE(SUM(inventory.quantity), 0) AS stock`).
		Joins("LEFT JOIN inventory ON inventory.product = products.id").
		Group("products.id, products.title, products.type").
		Having("COALESCE(SUM(inventory.quantity), 0) <= ?", threshold).
		Order("stock ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
