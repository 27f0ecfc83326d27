package models

import "time"

// Customer 客户表
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	Name      string    `gorm:"index;not null" json:"name"`    // 客户姓名
	Phone     string    `gorm:"index;default:''" json:"phone"` // 手机号（可选，11 位）
	Email     string    `gorm:"index;default:''" json:"email"` // 邮箱（可选）
	Address   string    `gorm:"default:''" json:"address"`     // 地址（可选）
	Notes     string    `gorm:"default:''" json:"notes"`       // 备注（可选）
	CreatedAt time.Time `gorm:"index" json:"created_at"`       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                    // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
