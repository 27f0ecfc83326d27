package main

import (
	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 示例商品
	products := []models.Product{
		{
			Title: "Windows 11 专业版密钥",
			Type:  constants.ProductTypeKeys,
			Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(299.00)),
		},
		{
			Title: "Office 2024 家庭版密钥",
			Type:  constants.ProductTypeKeys,
			Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.00)),
		},
		{
			Title: "U 盘启动盘制作工具",
			Type:  constants.ProductTypeTools,
			Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(49.90)),
		},
		{
			Title: "笔记本内存条 16G",
			Type:  constants.ProductTypeParts,
			Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(329.00)),
		},
	}

	for i := range products {
		product := &products[i]
		var existing models.Product
		if err := models.DB.Where("title = ?", product.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Title, err)
				continue
			}
			stdLog.Printf("Created product: %s", product.Title)
			// 初始入库
			record := models.InventoryRecord{
				ProductID: product.ID,
				Quantity:  20,
				Price:     product.Price,
				Notes:     "初始入库",
			}
			if err := models.DB.Create(&record).Error; err != nil {
				stdLog.Printf("Failed to create inventory for %s: %v", product.Title, err)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Title)
		}
	}

	// 示例客户
	customers := []models.Customer{
		{
			Name:    "张伟",
			Phone:   "13812340001",
			Email:   "zhangwei@example.com",
			Address: "北京市朝阳区建国路 88 号",
		},
		{
			Name:    "李娜",
			Phone:   "13912340002",
			Email:   "lina@example.com",
			Address: "上海市浦东新区世纪大道 100 号",
		},
		{
			Name:  "王强",
			Phone: "15012340003",
			Notes: "老客户，月结",
		},
	}

	for i := range customers {
		customer := &customers[i]
		var existing models.Customer
		if err := models.DB.Where("name = ?", customer.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Name, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Name)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
