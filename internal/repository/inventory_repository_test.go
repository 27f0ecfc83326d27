package repository

import (
	"testing"

	"github.com/keyshop-admin/internal/models"

	"github.com/shopspring/decimal"
)

func createTestProduct(t *testing.T, repo *GormProductRepository, title, productType string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Title: title,
		Type:  productType,
		Price: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestInventorySumByProductSignedLedger(t *testing.T) {
	db := openRepositoryTestDB(t)
	productRepo := NewProductRepository(db)
	repo := NewInventoryRepository(db)

	product := createTestProduct(t, productRepo, "测试密钥", "keys", 100)

	records := []models.InventoryRecord{
		{ProductID: product.ID, Quantity: 10},
		{ProductID: product.ID, Quantity: 5},
		{ProductID: product.ID, Quantity: -3},
	}
	if err := repo.CreateBatch(records); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	stock, err := repo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 12 {
		t.Fatalf("stock want 12 got %d", stock)
	}
}

func TestInventorySumByProductEmptyLedgerIsZero(t *testing.T) {
	db := openRepositoryTestDB(t)
	productRepo := NewProductRepository(db)
	repo := NewInventoryRepository(db)

	product := createTestProduct(t, productRepo, "无台账商品", "tools", 50)

	stock, err := repo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 0 {
		t.Fatalf("stock want 0 got %d", stock)
	}
}

func TestInventorySumByProductsGrouped(t *testing.T) {
	db := openRepositoryTestDB(t)
	productRepo := NewProductRepository(db)
	repo := NewInventoryRepository(db)

	first := createTestProduct(t, productRepo, "商品一", "keys", 100)
	second := createTestProduct(t, productRepo, "商品二", "parts", 200)
	third := createTestProduct(t, productRepo, "商品三", "tools", 300)

	if err := repo.CreateBatch([]models.InventoryRecord{
		{ProductID: first.ID, Quantity: 7},
		{ProductID: first.ID, Quantity: -2},
		{ProductID: second.ID, Quantity: -4},
	}); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	stocks, err := repo.SumByProducts([]uint{first.ID, second.ID, third.ID})
	if err != nil {
		t.Fatalf("sum by products failed: %v", err)
	}
	if stocks[first.ID] != 5 {
		t.Fatalf("first stock want 5 got %d", stocks[first.ID])
	}
	if stocks[second.ID] != -4 {
		t.Fatalf("second stock want -4 got %d", stocks[second.ID])
	}
	// 无台账的商品不出现在结果里，读取零值即可
	if stocks[third.ID] != 0 {
		t.Fatalf("third stock want 0 got %d", stocks[third.ID])
	}
}

func TestInventoryDeleteByProductRemovesAllRows(t *testing.T) {
	db := openRepositoryTestDB(t)
	productRepo := NewProductRepository(db)
	repo := NewInventoryRepository(db)

	product := createTestProduct(t, productRepo, "将被清空", "keys", 10)
	other := createTestProduct(t, productRepo, "保留商品", "keys", 10)

	if err := repo.CreateBatch([]models.InventoryRecord{
		{ProductID: product.ID, Quantity: 3},
		{ProductID: product.ID, Quantity: -1},
		{ProductID: other.ID, Quantity: 9},
	}); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}

	if err := repo.DeleteByProduct(product.ID); err != nil {
		t.Fatalf("delete by product failed: %v", err)
	}

	count, err := repo.CountByProduct(product.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count want 0 got %d", count)
	}
	otherCount, err := repo.CountByProduct(other.ID)
	if err != nil {
		t.Fatalf("count other failed: %v", err)
	}
	if otherCount != 1 {
		t.Fatalf("other count want 1 got %d", otherCount)
	}
}
