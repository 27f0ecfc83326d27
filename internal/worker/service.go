package worker

import (
	"context"
	"errors"
	"time"

	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/constants"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	lowStockSweepInterval = time.Hour
	lowStockSweepLimit    = 50
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.DashboardRepo != nil {
		go s.runLowStockSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runLowStockSweepLoop 周期巡检低库存商品，把遗漏的提醒补上。
// 单次库存变动的提醒由入队触发，这里兜底扫全量。
func (s *Service) runLowStockSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.DashboardRepo == nil {
		return
	}
	threshold := int64(constants.DefaultLowStockThreshold)
	if s.consumer.Config != nil && s.consumer.Config.Inventory.LowStockThreshold > 0 {
		threshold = int64(s.consumer.Config.Inventory.LowStockThreshold)
	}
	runOnce := func() {
		rows, err := s.consumer.DashboardRepo.GetLowStock(threshold, lowStockSweepLimit)
		if err != nil {
			logger.Warnw("worker_low_stock_sweep_failed", "error", err)
			return
		}
		for _, row := range rows {
			logger.Warnw("stock_low_alert",
				"product_id", row.ProductID,
				"title", row.Title,
				"stock", row.Stock,
				"threshold", threshold,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(lowStockSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
