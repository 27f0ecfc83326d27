package service

import (
	"errors"
	"testing"

	"github.com/keyshop-admin/internal/repository"
)

func TestProductValidation(t *testing.T) {
	env := setupServiceTest(t)

	if _, err := env.productService.Create(ProductInput{Title: "", Type: "keys", Price: "10.00"}); !errors.Is(err, ErrProductTitleRequired) {
		t.Fatalf("want ErrProductTitleRequired got %v", err)
	}
	if _, err := env.productService.Create(ProductInput{Title: "商品", Type: "licenses", Price: "10.00"}); !errors.Is(err, ErrInvalidProductType) {
		t.Fatalf("want ErrInvalidProductType got %v", err)
	}
	if _, err := env.productService.Create(ProductInput{Title: "商品", Type: "keys", Price: "-1.00"}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price want ErrInvalidPrice got %v", err)
	}
	if _, err := env.productService.Create(ProductInput{Title: "商品", Type: "keys", Price: "abc"}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("garbage price want ErrInvalidPrice got %v", err)
	}
}

func TestProductListEnrichesStock(t *testing.T) {
	env := setupServiceTest(t)
	first := env.createProduct(t, "商品一", "keys", "100.00")
	second := env.createProduct(t, "商品二", "tools", "50.00")
	env.stockIn(t, first.ID, 8, "60.00")

	list, err := env.productService.List(repository.ProductListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("total want 2 got %d", list.Total)
	}
	stocks := make(map[uint]int64)
	for _, product := range list.Products {
		stocks[product.ID] = product.Stock
	}
	if stocks[first.ID] != 8 {
		t.Fatalf("first stock want 8 got %d", stocks[first.ID])
	}
	if stocks[second.ID] != 0 {
		t.Fatalf("second stock want 0 got %d", stocks[second.ID])
	}
}

func TestProductGetComputesStock(t *testing.T) {
	env := setupServiceTest(t)
	product := env.createProduct(t, "密钥", "keys", "100.00")
	env.stockIn(t, product.ID, 5, "60.00")

	loaded, err := env.productService.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Stock != 5 {
		t.Fatalf("stock want 5 got %d", loaded.Stock)
	}

	if _, err := env.productService.Get(9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestProductDeletionImpactCounts(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	product := env.createProduct(t, "密钥", "keys", "100.00")
	env.stockIn(t, product.ID, 10, "60.00")

	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	impact, err := env.productService.DeletionImpact(product.ID)
	if err != nil {
		t.Fatalf("deletion impact failed: %v", err)
	}
	// 入库行 + 订单出库行
	if impact.InventoryRecords != 2 {
		t.Fatalf("inventory records want 2 got %d", impact.InventoryRecords)
	}
	if impact.OrderItems != 1 {
		t.Fatalf("order items want 1 got %d", impact.OrderItems)
	}
}

func TestProductDeleteCascades(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")
	doomed := env.createProduct(t, "将删除", "keys", "100.00")
	kept := env.createProduct(t, "保留", "tools", "50.00")
	env.stockIn(t, doomed.ID, 10, "60.00")
	env.stockIn(t, kept.ID, 10, "30.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: doomed.ID, Quantity: 2},
			{ProductID: kept.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.productService.Delete(doomed.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := env.productService.Get(doomed.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	count, err := env.inventoryRepo.CountByProduct(doomed.ID)
	if err != nil {
		t.Fatalf("count inventory failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("inventory rows want 0 got %d", count)
	}

	// 订单保留但变短，金额随之变小
	items, err := env.orderRepo.ListItemsByOrder(order.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != kept.ID {
		t.Fatalf("surviving items want 1 of product %d got %+v", kept.ID, items)
	}
	reloaded, err := env.orderService.Get(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.Total().Equal(moneyFromString(t, "50.00").Decimal) {
		t.Fatalf("order total want 50.00 got %s", reloaded.Total().String())
	}
}
