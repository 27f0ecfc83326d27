package service

import (
	"strings"

	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"

	"gorm.io/gorm"
)

// 商品类型白名单
var allowedProductTypes = map[string]bool{
	constants.ProductTypeKeys:  true,
	constants.ProductTypeTools: true,
	constants.ProductTypeParts: true,
}

// ProductService 商品服务
type ProductService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	orderRepo     repository.OrderRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, orderRepo repository.OrderRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Title string
	Type  string
	Price string
}

// ProductList 商品列表结果
type ProductList struct {
	Products   []models.Product
	Total      int64
	TotalPages int
}

// ProductDeletionImpact 删除商品的影响范围（确认弹窗用）
type ProductDeletionImpact struct {
	InventoryRecords int64 `json:"inventory_records"`
	OrderItems       int64 `json:"order_items"`
}

func validateProductInput(input *ProductInput) (models.Money, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Type = strings.TrimSpace(input.Type)
	input.Price = strings.TrimSpace(input.Price)

	if input.Title == "" {
		return models.Money{}, ErrProductTitleRequired
	}
	if !allowedProductTypes[input.Type] {
		return models.Money{}, ErrInvalidProductType
	}
	price, err := models.ParseMoney(input.Price)
	if err != nil {
		return models.Money{}, ErrInvalidPrice
	}
	return price, nil
}

// List 商品列表；每个商品附带实时计算的库存
func (s *ProductService) List(filter repository.ProductListFilter) (*ProductList, error) {
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 {
		ids := make([]uint, 0, len(products))
		for _, product := range products {
			ids = append(ids, product.ID)
		}
		stocks, err := s.inventoryRepo.SumByProducts(ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			products[i].Stock = stocks[products[i].ID]
		}
	}

	return &ProductList{
		Products:   products,
		Total:      total,
		TotalPages: int(repository.TotalPages(total, filter.PageSize)),
	}, nil
}

// Get 商品详情（含实时库存）
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	stock, err := s.inventoryRepo.SumByProduct(id)
	if err != nil {
		return nil, err
	}
	product.Stock = stock
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	price, err := validateProductInput(&input)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Title: input.Title,
		Type:  input.Type,
		Price: price,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "title", product.Title, "type", product.Type)
	return product, nil
}

// Update 更新商品；改价只影响之后的订单，历史订单项价格已冻结
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	price, err := validateProductInput(&input)
	if err != nil {
		return nil, err
	}

	product.Title = input.Title
	product.Type = input.Type
	product.Price = price
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeletionImpact 删除商品会连带删除的数据量（删除前确认用）
func (s *ProductService) DeletionImpact(id uint) (*ProductDeletionImpact, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	inventoryCount, err := s.inventoryRepo.CountByProduct(id)
	if err != nil {
		return nil, err
	}
	itemCount, err := s.orderRepo.CountItemsByProduct(id)
	if err != nil {
		return nil, err
	}
	return &ProductDeletionImpact{
		InventoryRecords: inventoryCount,
		OrderItems:       itemCount,
	}, nil
}

// Delete 删除商品，并级联删除其台账与订单项（先删子行再删本体）。
// 引用了被删订单项的订单会变短，订单金额随之变小。
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).DeleteItemsByProduct(id); err != nil {
			return err
		}
		if err := s.inventoryRepo.WithTx(tx).DeleteByProduct(id); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}
	logger.Infow("product_deleted", "product_id", id, "title", product.Title)
	return nil
}
