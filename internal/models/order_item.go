package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单项表
// 列名 order 是 SQL 保留字，裸 SQL 中必须加双引号。
type OrderItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID        uint      `gorm:"column:order;index;not null" json:"order"`                      // 订单ID
	ProductID      uint      `gorm:"column:product;index;not null" json:"product"`                  // 商品ID
	Quantity       int       `gorm:"not null" json:"quantity"`                                      // 数量
	PriceOverwrite Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_overwrite"`  // 实收单价（下单时锁定）
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                       // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product_info,omitempty"` // 商品信息
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 行小计 = price_overwrite × quantity
func (i OrderItem) LineTotal() Money {
	return NewMoneyFromDecimal(i.PriceOverwrite.Mul(decimal.NewFromInt(int64(i.Quantity))))
}
