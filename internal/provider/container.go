package provider

import (
	"github.com/keyshop-admin/internal/cache"
	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/queue"
	"github.com/keyshop-admin/internal/repository"
	"github.com/keyshop-admin/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	CustomerRepo  repository.CustomerRepository
	ProductRepo   repository.ProductRepository
	InventoryRepo repository.InventoryRepository
	OrderRepo     repository.OrderRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthService      *service.AuthService
	CustomerService  *service.CustomerService
	ProductService   *service.ProductService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	lowStockThreshold := int64(c.Config.Inventory.LowStockThreshold)

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.OrderRepo)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo, c.ProductRepo, c.QueueClient, lowStockThreshold)
	c.ProductService = service.NewProductService(c.ProductRepo, c.InventoryRepo, c.OrderRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CustomerRepo, c.ProductRepo, c.InventoryRepo, c.InventoryService, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, lowStockThreshold)
}
