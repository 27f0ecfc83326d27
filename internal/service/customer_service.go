package service

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"

	"gorm.io/gorm"
)

// 大陆手机号：1 开头，第二位 3-9，共 11 位
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// CustomerService 客户服务
type CustomerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

// CustomerInput 创建/更新客户输入
type CustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

// CustomerList 客户列表结果
type CustomerList struct {
	Customers  []models.Customer
	Total      int64
	TotalPages int
}

func validateCustomerInput(input *CustomerInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)
	input.Notes = strings.TrimSpace(input.Notes)

	if input.Name == "" {
		return ErrCustomerNameRequired
	}
	if input.Name == constants.DeletedCustomerName {
		return ErrCustomerProtected
	}
	if input.Phone != "" && !phonePattern.MatchString(input.Phone) {
		return ErrInvalidPhone
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// List 客户列表
func (s *CustomerService) List(filter repository.CustomerListFilter) (*CustomerList, error) {
	customers, total, err := s.customerRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &CustomerList{
		Customers:  customers,
		Total:      total,
		TotalPages: int(repository.TotalPages(total, filter.PageSize)),
	}, nil
}

// Get 客户详情
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// Create 创建客户
func (s *CustomerService) Create(input CustomerInput) (*models.Customer, error) {
	if err := validateCustomerInput(&input); err != nil {
		return nil, err
	}
	customer := &models.Customer{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Notes:   input.Notes,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	logger.Infow("customer_created", "customer_id", customer.ID, "name", customer.Name)
	return customer, nil
}

// Update 更新客户；占位客户不可修改
func (s *CustomerService) Update(id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	if customer.Name == constants.DeletedCustomerName {
		return nil, ErrCustomerProtected
	}
	if err := validateCustomerInput(&input); err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	customer.Notes = input.Notes
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// OrderCount 客户名下订单数（删除前确认用）
func (s *CustomerService) OrderCount(id uint) (int64, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, ErrCustomerNotFound
	}
	return s.orderRepo.CountByCustomer(id)
}

// Delete 删除客户。名下订单转移给占位客户后删除本体，
// 订单及其历史金额完整保留。
func (s *CustomerService) Delete(id uint) error {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrCustomerNotFound
	}
	if customer.Name == constants.DeletedCustomerName {
		return ErrCustomerProtected
	}

	err = s.customerRepo.Transaction(func(tx *gorm.DB) error {
		customerTx := s.customerRepo.WithTx(tx)
		orderTx := s.orderRepo.WithTx(tx)

		count, err := orderTx.CountByCustomer(id)
		if err != nil {
			return err
		}
		if count > 0 {
			placeholder, err := s.ensurePlaceholder(customerTx)
			if err != nil {
				return err
			}
			if err := orderTx.ReassignCustomer(id, placeholder.ID); err != nil {
				return err
			}
		}
		return customerTx.Delete(id)
	})
	if err != nil {
		return err
	}
	logger.Infow("customer_deleted", "customer_id", id, "name", customer.Name)
	return nil
}

// ensurePlaceholder 查找占位客户，不存在则创建
func (s *CustomerService) ensurePlaceholder(repo repository.CustomerRepository) (*models.Customer, error) {
	placeholder, err := repo.GetByName(constants.DeletedCustomerName)
	if err != nil {
		return nil, err
	}
	if placeholder != nil {
		return placeholder, nil
	}
	placeholder = &models.Customer{
		Name:  constants.DeletedCustomerName,
		Notes: constants.DeletedCustomerNotes,
	}
	if err := repo.Create(placeholder); err != nil {
		return nil, err
	}
	logger.Infow("placeholder_customer_created", "customer_id", placeholder.ID)
	return placeholder, nil
}
