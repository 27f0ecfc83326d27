package models

import "time"

// Order 订单表
// total 不落库：订单金额始终由 order_items 的 price_overwrite×quantity 求和得出。
type Order struct {
	ID          uint      `gorm:"primarykey" json:"id"`                            // 主键
	CustomerID  uint      `gorm:"column:customer;index;not null" json:"customer"`  // 客户ID（可能指向占位客户）
	Status      string    `gorm:"index;not null" json:"status"`                    // 订单状态（pending/fulfilled/canceled）
	Notes       string    `gorm:"default:''" json:"notes"`                         // 备注
	InventoryID *uint     `gorm:"column:inventory;index" json:"inventory"`         // 首条出库台账行ID
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                      // 更新时间

	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer_info,omitempty"` // 客户信息
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`            // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// Total 订单金额 = Σ price_overwrite × quantity
func (o Order) Total() Money {
	total := Money{}
	for _, item := range o.Items {
		total = NewMoneyFromDecimal(total.Add(item.LineTotal().Decimal))
	}
	return total
}
