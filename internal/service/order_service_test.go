package service

import (
	"errors"
	"testing"

	"github.com/keyshop-admin/internal/constants"
)

func TestCreateOrderAppendsNegativeLedgerRows(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	product := env.createProduct(t, "Windows 密钥", "keys", "299.00")
	env.stockIn(t, product.ID, 10, "200.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if order.InventoryID == nil {
		t.Fatalf("expected order linked to outbound ledger row")
	}

	stock, err := env.inventoryRepo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 7 {
		t.Fatalf("stock want 7 got %d", stock)
	}

	records, err := env.inventoryRepo.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records want 2 got %d", len(records))
	}
	outbound := records[0]
	if outbound.Quantity != -3 {
		t.Fatalf("outbound quantity want -3 got %d", outbound.Quantity)
	}
	if outbound.Notes != "订单出库 - 3 件" {
		t.Fatalf("outbound note want 订单出库 - 3 件 got %s", outbound.Notes)
	}
}

func TestCreateOrderFreezesItemPrice(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")
	product := env.createProduct(t, "Office 密钥", "keys", "199.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.Total().Equal(moneyFromString(t, "398.00").Decimal) {
		t.Fatalf("total want 398.00 got %s", order.Total().String())
	}

	// 改价不影响已冻结的订单金额
	if _, err := env.productService.Update(product.ID, ProductInput{
		Title: "Office 密钥",
		Type:  "keys",
		Price: "999.00",
	}); err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	reloaded, err := env.orderService.Get(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.Total().Equal(moneyFromString(t, "398.00").Decimal) {
		t.Fatalf("total after price change want 398.00 got %s", reloaded.Total().String())
	}
}

func TestCreateOrderHonorsPriceOverwrite(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "王强")
	product := env.createProduct(t, "内存条", "parts", "329.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 1, PriceOverwrite: "300.00"},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.Total().Equal(moneyFromString(t, "300.00").Decimal) {
		t.Fatalf("total want 300.00 got %s", order.Total().String())
	}
}

func TestCreateOrderAllowsOversell(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	product := env.createProduct(t, "U 盘工具", "tools", "49.90")
	env.stockIn(t, product.ID, 1, "30.00")

	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 5},
		},
	}); err != nil {
		t.Fatalf("oversell order failed: %v", err)
	}

	stock, err := env.inventoryRepo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != -4 {
		t.Fatalf("stock want -4 got %d", stock)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	product := env.createProduct(t, "密钥", "keys", "100.00")

	if _, err := env.orderService.Create(CreateOrderInput{CustomerID: customer.ID}); !errors.Is(err, ErrOrderItemsRequired) {
		t.Fatalf("want ErrOrderItemsRequired got %v", err)
	}
	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 0}},
	}); !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("want ErrInvalidOrderItem got %v", err)
	}
	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: 9999,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound got %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")
	product := env.createProduct(t, "密钥", "keys", "100.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := env.orderService.UpdateStatus(order.ID, "shipped"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("want ErrInvalidOrderStatus got %v", err)
	}

	updated, err := env.orderService.UpdateStatus(order.ID, constants.OrderStatusFulfilled)
	if err != nil {
		t.Fatalf("pending -> fulfilled failed: %v", err)
	}
	if updated.Status != constants.OrderStatusFulfilled {
		t.Fatalf("status want fulfilled got %s", updated.Status)
	}

	// 终态不可再流转
	if _, err := env.orderService.UpdateStatus(order.ID, constants.OrderStatusPending); !errors.Is(err, ErrStatusNotTransitable) {
		t.Fatalf("want ErrStatusNotTransitable got %v", err)
	}
	if _, err := env.orderService.UpdateStatus(order.ID, constants.OrderStatusCanceled); !errors.Is(err, ErrStatusNotTransitable) {
		t.Fatalf("want ErrStatusNotTransitable got %v", err)
	}

	// 相同状态为幂等无操作
	if _, err := env.orderService.UpdateStatus(order.ID, constants.OrderStatusFulfilled); err != nil {
		t.Fatalf("same status should be no-op, got %v", err)
	}
}

func TestUpdateItemsCompensatesLedger(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "王强")
	product := env.createProduct(t, "密钥", "keys", "100.00")
	env.stockIn(t, product.ID, 10, "80.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 数量 2 -> 5：追加 -3 出库行
	if _, err := env.orderService.UpdateItems(order.ID, UpdateItemsInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 5}},
	}); err != nil {
		t.Fatalf("update items failed: %v", err)
	}
	stock, err := env.inventoryRepo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 5 {
		t.Fatalf("stock after increase want 5 got %d", stock)
	}

	// 数量 5 -> 1：追加 +4 退回行
	if _, err := env.orderService.UpdateItems(order.ID, UpdateItemsInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("update items down failed: %v", err)
	}
	stock, err = env.inventoryRepo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 9 {
		t.Fatalf("stock after decrease want 9 got %d", stock)
	}

	records, err := env.inventoryRepo.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list records failed: %v", err)
	}
	// 入库 + 出库 2 + 补偿 -3 + 退回 +4
	if len(records) != 4 {
		t.Fatalf("records want 4 got %d", len(records))
	}
}

func TestUpdateItemsReturnsStockForRemovedProduct(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	first := env.createProduct(t, "商品一", "keys", "100.00")
	second := env.createProduct(t, "商品二", "tools", "50.00")
	env.stockIn(t, first.ID, 10, "80.00")
	env.stockIn(t, second.ID, 10, "30.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: first.ID, Quantity: 2},
			{ProductID: second.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 移除第二个商品：其出库数量全额退回
	if _, err := env.orderService.UpdateItems(order.ID, UpdateItemsInput{
		Items: []OrderItemInput{{ProductID: first.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("update items failed: %v", err)
	}

	stock, err := env.inventoryRepo.SumByProduct(second.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 10 {
		t.Fatalf("second stock want 10 got %d", stock)
	}
	stock, err = env.inventoryRepo.SumByProduct(first.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 8 {
		t.Fatalf("first stock want 8 got %d", stock)
	}
}

func TestDeleteOrderKeepsLedger(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")
	product := env.createProduct(t, "密钥", "keys", "100.00")
	env.stockIn(t, product.ID, 10, "80.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.orderService.Delete(order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}

	if _, err := env.orderService.Get(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
	items, err := env.orderRepo.ListItemsByOrder(order.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items want 0 got %d", len(items))
	}

	// 台账不回滚，库存保持扣减后的值
	stock, err := env.inventoryRepo.SumByProduct(product.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if stock != 6 {
		t.Fatalf("stock want 6 got %d", stock)
	}
}
