package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCanceled  = "canceled"
)

// 商品类型常量
const (
	ProductTypeKeys  = "keys"
	ProductTypeTools = "tools"
	ProductTypeParts = "parts"
)

// 占位客户（软删除客户时接管其订单）
const (
	DeletedCustomerName  = "[已删除的客户]"
	DeletedCustomerNotes = "这是一个占位客户，用于保留已删除客户的订单记录"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskStockLowAlert     = "task:stock_low_alert"
	TaskOrderStatusNotify = "task:order_status_notify"
)

// DefaultLowStockThreshold 默认低库存阈值
const DefaultLowStockThreshold = 5
