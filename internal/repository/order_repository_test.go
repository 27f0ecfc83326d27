package repository

import (
	"testing"

	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/models"

	"github.com/shopspring/decimal"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, customerID uint, status string) *models.Order {
	t.Helper()
	order := &models.Order{CustomerID: customerID, Status: status}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderListSearchByCustomerNameAndPhone(t *testing.T) {
	db := openRepositoryTestDB(t)
	customerRepo := NewCustomerRepository(db)
	repo := NewOrderRepository(db)

	zhang := createTestCustomer(t, customerRepo, "张伟", "13812340001", "")
	li := createTestCustomer(t, customerRepo, "李娜", "13912340002", "")

	createTestOrder(t, repo, zhang.ID, constants.OrderStatusPending)
	createTestOrder(t, repo, li.ID, constants.OrderStatusPending)

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 20, Search: "张"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if orders[0].CustomerID != zhang.ID {
		t.Fatalf("customer want %d got %d", zhang.ID, orders[0].CustomerID)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 20, Search: "1391234"})
	if err != nil {
		t.Fatalf("list by phone failed: %v", err)
	}
	if total != 1 || orders[0].CustomerID != li.ID {
		t.Fatalf("phone search want customer %d got %+v", li.ID, orders)
	}
}

func TestOrderListStatusFilterAllMeansNoFilter(t *testing.T) {
	db := openRepositoryTestDB(t)
	customerRepo := NewCustomerRepository(db)
	repo := NewOrderRepository(db)

	customer := createTestCustomer(t, customerRepo, "王强", "", "")
	createTestOrder(t, repo, customer.ID, constants.OrderStatusPending)
	createTestOrder(t, repo, customer.ID, constants.OrderStatusFulfilled)

	_, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 20, Status: "all"})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total want 2 got %d", total)
	}

	_, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 20, Status: constants.OrderStatusFulfilled})
	if err != nil {
		t.Fatalf("list fulfilled failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("fulfilled total want 1 got %d", total)
	}
}

func TestOrderReassignCustomerMovesAllOrders(t *testing.T) {
	db := openRepositoryTestDB(t)
	customerRepo := NewCustomerRepository(db)
	repo := NewOrderRepository(db)

	from := createTestCustomer(t, customerRepo, "旧客户", "", "")
	to := createTestCustomer(t, customerRepo, "占位客户", "", "")

	createTestOrder(t, repo, from.ID, constants.OrderStatusPending)
	createTestOrder(t, repo, from.ID, constants.OrderStatusCanceled)

	if err := repo.ReassignCustomer(from.ID, to.ID); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	fromCount, err := repo.CountByCustomer(from.ID)
	if err != nil {
		t.Fatalf("count from failed: %v", err)
	}
	if fromCount != 0 {
		t.Fatalf("from count want 0 got %d", fromCount)
	}
	toCount, err := repo.CountByCustomer(to.ID)
	if err != nil {
		t.Fatalf("count to failed: %v", err)
	}
	if toCount != 2 {
		t.Fatalf("to count want 2 got %d", toCount)
	}
}

func TestOrderItemsQuotedColumnRoundTrip(t *testing.T) {
	db := openRepositoryTestDB(t)
	customerRepo := NewCustomerRepository(db)
	productRepo := NewProductRepository(db)
	repo := NewOrderRepository(db)

	customer := createTestCustomer(t, customerRepo, "张伟", "", "")
	product := createTestProduct(t, productRepo, "密钥", "keys", 100)
	order := createTestOrder(t, repo, customer.ID, constants.OrderStatusPending)

	items := []models.OrderItem{
		{
			OrderID:        order.ID,
			ProductID:      product.ID,
			Quantity:       2,
			PriceOverwrite: models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
		},
	}
	if err := repo.CreateItems(items); err != nil {
		t.Fatalf("create items failed: %v", err)
	}

	loaded, err := repo.ListItemsByOrder(order.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("items want 1 got %d", len(loaded))
	}
	if loaded[0].Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", loaded[0].Quantity)
	}

	count, err := repo.CountItemsByProduct(product.ID)
	if err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("item count want 1 got %d", count)
	}

	if err := repo.DeleteItemsByOrder(order.ID); err != nil {
		t.Fatalf("delete items failed: %v", err)
	}
	loaded, err = repo.ListItemsByOrder(order.ID)
	if err != nil {
		t.Fatalf("list after delete failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("items after delete want 0 got %d", len(loaded))
	}
}
