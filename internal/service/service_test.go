package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 测试用服务集合；队列与缓存保持关闭，相关调用静默跳过
type testEnv struct {
	db               *gorm.DB
	customerRepo     repository.CustomerRepository
	productRepo      repository.ProductRepository
	inventoryRepo    repository.InventoryRepository
	orderRepo        repository.OrderRepository
	customerService  *CustomerService
	productService   *ProductService
	inventoryService *InventoryService
	orderService     *OrderService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Customer{},
		&models.Product{},
		&models.InventoryRecord{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	env := &testEnv{
		db:            db,
		customerRepo:  repository.NewCustomerRepository(db),
		productRepo:   repository.NewProductRepository(db),
		inventoryRepo: repository.NewInventoryRepository(db),
		orderRepo:     repository.NewOrderRepository(db),
	}
	env.customerService = NewCustomerService(env.customerRepo, env.orderRepo)
	env.inventoryService = NewInventoryService(env.inventoryRepo, env.productRepo, nil, 5)
	env.productService = NewProductService(env.productRepo, env.inventoryRepo, env.orderRepo)
	env.orderService = NewOrderService(env.orderRepo, env.customerRepo, env.productRepo, env.inventoryRepo, env.inventoryService, nil)
	return env
}

func (env *testEnv) createCustomer(t *testing.T, name string) *models.Customer {
	t.Helper()
	customer, err := env.customerService.Create(CustomerInput{Name: name})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func (env *testEnv) createProduct(t *testing.T, title, productType, price string) *models.Product {
	t.Helper()
	product, err := env.productService.Create(ProductInput{Title: title, Type: productType, Price: price})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (env *testEnv) stockIn(t *testing.T, productID uint, quantity int, price string) *models.InventoryRecord {
	t.Helper()
	record, err := env.inventoryService.StockIn(StockInInput{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	})
	if err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	return record
}

func moneyFromString(t *testing.T, raw string) models.Money {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal failed: %v", err)
	}
	return models.NewMoneyFromDecimal(d)
}
