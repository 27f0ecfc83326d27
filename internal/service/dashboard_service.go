package service

import (
	"context"
	"time"

	"github.com/keyshop-admin/internal/cache"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
	trendMonths       = 6
	rankingLimit      = 5
	lowStockLimit     = 5
)

// DashboardService 仪表盘服务
type DashboardService struct {
	dashboardRepo     repository.DashboardRepository
	lowStockThreshold int64
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(dashboardRepo repository.DashboardRepository, lowStockThreshold int64) *DashboardService {
	return &DashboardService{
		dashboardRepo:     dashboardRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// DashboardSummary 仪表盘汇总数据
type DashboardSummary struct {
	Overview      DashboardOverview       `json:"overview"`
	MonthlyTrends []DashboardMonthlyTrend `json:"monthly_trends"`
	TopProducts   []DashboardTopProduct   `json:"top_products"`
	LowStock      []DashboardLowStockItem `json:"low_stock"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// DashboardOverview 总览指标
type DashboardOverview struct {
	CustomersTotal int64        `json:"customers_total"`
	ProductsTotal  int64        `json:"products_total"`
	OrdersTotal    int64        `json:"orders_total"`
	PendingOrders  int64        `json:"pending_orders"`
	Revenue        models.Money `json:"revenue"`
}

// DashboardMonthlyTrend 按月趋势点
type DashboardMonthlyTrend struct {
	Month   string       `json:"month"`
	Revenue models.Money `json:"revenue"`
	Orders  int64        `json:"orders"`
}

// DashboardTopProduct 商品销量排行项
type DashboardTopProduct struct {
	ProductID uint         `json:"product_id"`
	Title     string       `json:"title"`
	Quantity  int64        `json:"quantity"`
	Revenue   models.Money `json:"revenue"`
}

// DashboardLowStockItem 低库存商品项
type DashboardLowStockItem struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Stock     int64  `json:"stock"`
}

func moneyFromFloat(value float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(value))
}

// Summary 生成仪表盘汇总；启用 Redis 时短暂缓存，库存指标不缓存口径
// 以外的数据（低库存列表同样来自聚合查询，接受最长 60 秒的延迟）。
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached)
	if err != nil {
		logger.Warnw("dashboard_cache_read_failed", "error", err)
	}
	if hit {
		return &cached, nil
	}

	summary, err := s.build()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, dashboardCacheKey, summary, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "error", err)
	}
	return summary, nil
}

// Invalidate 使仪表盘缓存失效（写操作后调用）
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := cache.Del(ctx, dashboardCacheKey); err != nil {
		logger.Warnw("dashboard_cache_del_failed", "error", err)
	}
}

func (s *DashboardService) build() (*DashboardSummary, error) {
	now := time.Now()
	// 含当前月在内的最近 6 个自然月
	startAt := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(trendMonths - 1), 0)
	endAt := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, 1, 0)

	overviewRow, err := s.dashboardRepo.GetOverview()
	if err != nil {
		return nil, err
	}
	trendRows, err := s.dashboardRepo.GetMonthlyTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	rankingRows, err := s.dashboardRepo.GetTopProducts(startAt, endAt, rankingLimit)
	if err != nil {
		return nil, err
	}
	lowStockRows, err := s.dashboardRepo.GetLowStock(s.lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, err
	}

	trends := make([]DashboardMonthlyTrend, 0, len(trendRows))
	for _, row := range trendRows {
		trends = append(trends, DashboardMonthlyTrend{
			Month:   row.Month,
			Revenue: moneyFromFloat(row.Revenue),
			Orders:  row.Orders,
		})
	}
	topProducts := make([]DashboardTopProduct, 0, len(rankingRows))
	for _, row := range rankingRows {
		topProducts = append(topProducts, DashboardTopProduct{
			ProductID: row.ProductID,
			Title:     row.Title,
			Quantity:  row.Quantity,
			Revenue:   moneyFromFloat(row.Revenue),
		})
	}
	lowStock := make([]DashboardLowStockItem, 0, len(lowStockRows))
	for _, row := range lowStockRows {
		lowStock = append(lowStock, DashboardLowStockItem{
			ProductID: row.ProductID,
			Title:     row.Title,
			Type:      row.Type,
			Stock:     row.Stock,
		})
	}

	return &DashboardSummary{
		Overview: DashboardOverview{
			CustomersTotal: overviewRow.CustomersTotal,
			ProductsTotal:  overviewRow.ProductsTotal,
			OrdersTotal:    overviewRow.OrdersTotal,
			PendingOrders:  overviewRow.PendingOrders,
			Revenue:        moneyFromFloat(overviewRow.Revenue),
		},
		MonthlyTrends: trends,
		TopProducts:   topProducts,
		LowStock:      lowStock,
		GeneratedAt:   now,
	}, nil
}
