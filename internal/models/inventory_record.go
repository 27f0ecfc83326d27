package models

import "time"

// InventoryRecord 库存台账表（只追加）
// quantity 为有符号数：正数入库，负数出库。某商品的当前库存等于其全部
// 台账行 quantity 之和，读取时重新计算，不维护冗余计数器。
type InventoryRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                // 主键
	ProductID uint      `gorm:"column:product;index;not null" json:"product"`        // 商品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                            // 变动数量（正入库/负出库）
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 变动时单价
	Notes     string    `gorm:"default:''" json:"notes"`                             // 备注
	CreatedAt time.Time `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                          // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product_info,omitempty"` // 商品信息
}

// TableName 指定表名
func (InventoryRecord) TableName() string {
	return "inventory"
}
