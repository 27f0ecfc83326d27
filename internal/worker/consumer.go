package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/provider"
	"github.com/keyshop-admin/internal/queue"
	"github.com/keyshop-admin/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStockLowAlert, c.handleStockLowAlert)
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
}

// handleStockLowAlert 消费低库存提醒。入队到消费之间库存可能已经
// 回补，处理前重新求和确认，仍低于阈值才发出提醒。
func (c *Consumer) handleStockLowAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stock_low_alert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StockLowAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stock_low_alert_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_stock_low_alert_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}

	stock, err := c.InventoryService.Stock(payload.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			logger.Debugw("worker_stock_low_alert_skip_product_not_found", "product_id", payload.ProductID)
			return nil
		}
		logger.Warnw("worker_stock_low_alert_fetch_stock_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if stock > payload.Threshold {
		logger.Debugw("worker_stock_low_alert_skip_restocked",
			"product_id", payload.ProductID,
			"stock", stock,
			"threshold", payload.Threshold,
		)
		return nil
	}

	logger.Warnw("stock_low_alert",
		"product_id", payload.ProductID,
		"title", payload.Title,
		"stock", stock,
		"threshold", payload.Threshold,
	)
	return nil
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	customerName := ""
	if order.Customer != nil {
		customerName = order.Customer.Name
	}
	logger.Infow("order_status_notify",
		"order_id", order.ID,
		"customer", customerName,
		"from", payload.FromStatus,
		"to", payload.ToStatus,
		"total", order.Total().String(),
	)
	return nil
}
