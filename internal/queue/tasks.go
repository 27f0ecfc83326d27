package queue

import (
	"encoding/json"

	"github.com/keyshop-admin/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskStockLowAlert 低库存提醒任务
	TaskStockLowAlert = constants.TaskStockLowAlert
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// StockLowAlertPayload 低库存提醒任务载荷
type StockLowAlertPayload struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Stock     int64  `json:"stock"`
	Threshold int64  `json:"threshold"`
}

// OrderStatusNotifyPayload 订单状态变更通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID    uint   `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// NewStockLowAlertTask 创建低库存提醒任务
func NewStockLowAlertTask(payload StockLowAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockLowAlert, body), nil
}

// NewOrderStatusNotifyTask 创建订单状态变更通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
