package service

import (
	"errors"
	"testing"

	"github.com/keyshop-admin/internal/constants"
)

func TestCustomerValidation(t *testing.T) {
	env := setupServiceTest(t)

	if _, err := env.customerService.Create(CustomerInput{Name: "   "}); !errors.Is(err, ErrCustomerNameRequired) {
		t.Fatalf("want ErrCustomerNameRequired got %v", err)
	}
	if _, err := env.customerService.Create(CustomerInput{Name: "张伟", Phone: "12345"}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("want ErrInvalidPhone got %v", err)
	}
	if _, err := env.customerService.Create(CustomerInput{Name: "张伟", Phone: "23812340001"}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("leading digit 2 want ErrInvalidPhone got %v", err)
	}
	if _, err := env.customerService.Create(CustomerInput{Name: "张伟", Email: "not-an-email"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
	// 占位客户名不可被占用
	if _, err := env.customerService.Create(CustomerInput{Name: constants.DeletedCustomerName}); !errors.Is(err, ErrCustomerProtected) {
		t.Fatalf("want ErrCustomerProtected got %v", err)
	}

	customer, err := env.customerService.Create(CustomerInput{
		Name:  " 张伟 ",
		Phone: "13812340001",
		Email: "zhangwei@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if customer.Name != "张伟" {
		t.Fatalf("name want trimmed 张伟 got %q", customer.Name)
	}
}

func TestCustomerDeleteWithoutOrdersSkipsPlaceholder(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")

	if err := env.customerService.Delete(customer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	placeholder, err := env.customerRepo.GetByName(constants.DeletedCustomerName)
	if err != nil {
		t.Fatalf("get placeholder failed: %v", err)
	}
	if placeholder != nil {
		t.Fatalf("placeholder should not exist, got %+v", placeholder)
	}
	if _, err := env.customerService.Get(customer.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound got %v", err)
	}
}

func TestCustomerDeleteReassignsOrdersToPlaceholder(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "王强")
	product := env.createProduct(t, "密钥", "keys", "100.00")

	order, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.customerService.Delete(customer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	placeholder, err := env.customerRepo.GetByName(constants.DeletedCustomerName)
	if err != nil {
		t.Fatalf("get placeholder failed: %v", err)
	}
	if placeholder == nil {
		t.Fatalf("placeholder customer should be created on demand")
	}
	if placeholder.Notes != constants.DeletedCustomerNotes {
		t.Fatalf("placeholder notes want %q got %q", constants.DeletedCustomerNotes, placeholder.Notes)
	}

	reloaded, err := env.orderService.Get(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.CustomerID != placeholder.ID {
		t.Fatalf("order customer want placeholder %d got %d", placeholder.ID, reloaded.CustomerID)
	}
	// 历史金额完整保留
	if !reloaded.Total().Equal(moneyFromString(t, "200.00").Decimal) {
		t.Fatalf("order total want 200.00 got %s", reloaded.Total().String())
	}
}

func TestCustomerDeletePlaceholderReused(t *testing.T) {
	env := setupServiceTest(t)
	product := env.createProduct(t, "密钥", "keys", "100.00")

	for _, name := range []string{"客户一", "客户二"} {
		customer := env.createCustomer(t, name)
		if _, err := env.orderService.Create(CreateOrderInput{
			CustomerID: customer.ID,
			Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		if err := env.customerService.Delete(customer.ID); err != nil {
			t.Fatalf("delete %s failed: %v", name, err)
		}
	}

	placeholder, err := env.customerRepo.GetByName(constants.DeletedCustomerName)
	if err != nil {
		t.Fatalf("get placeholder failed: %v", err)
	}
	if placeholder == nil {
		t.Fatalf("placeholder missing")
	}
	count, err := env.orderRepo.CountByCustomer(placeholder.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("placeholder orders want 2 got %d", count)
	}
}

func TestPlaceholderCustomerProtected(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "张伟")
	product := env.createProduct(t, "密钥", "keys", "100.00")

	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.customerService.Delete(customer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	placeholder, err := env.customerRepo.GetByName(constants.DeletedCustomerName)
	if err != nil || placeholder == nil {
		t.Fatalf("placeholder missing: %v", err)
	}

	if _, err := env.customerService.Update(placeholder.ID, CustomerInput{Name: "改名"}); !errors.Is(err, ErrCustomerProtected) {
		t.Fatalf("update want ErrCustomerProtected got %v", err)
	}
	if err := env.customerService.Delete(placeholder.ID); !errors.Is(err, ErrCustomerProtected) {
		t.Fatalf("delete want ErrCustomerProtected got %v", err)
	}
}

func TestCustomerOrderCount(t *testing.T) {
	env := setupServiceTest(t)
	customer := env.createCustomer(t, "李娜")
	product := env.createProduct(t, "密钥", "keys", "100.00")

	count, err := env.customerService.OrderCount(customer.ID)
	if err != nil {
		t.Fatalf("order count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count want 0 got %d", count)
	}

	if _, err := env.orderService.Create(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	count, err = env.customerService.OrderCount(customer.ID)
	if err != nil {
		t.Fatalf("order count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	if _, err := env.customerService.OrderCount(9999); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound got %v", err)
	}
}
