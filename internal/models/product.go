package models

import "time"

// Product 商品表
// 库存不落库：始终由 inventory 台账的 quantity 求和得出。
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`                           // 主键
	Title     string    `gorm:"index;not null" json:"title"`                    // 商品名称
	Type      string    `gorm:"type:varchar(20);index;not null" json:"type"`    // 商品类型（keys/tools/parts）
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 标价
	CreatedAt time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                     // 更新时间

	Stock int64 `gorm:"-" json:"stock"` // 当前库存（派生值，仅结构，不写入数据库）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
