package service

import "errors"

// 业务错误定义；在 handler 层统一映射为响应码。
var (
	ErrCustomerNotFound     = errors.New("客户不存在")
	ErrCustomerNameRequired = errors.New("客户姓名不能为空")
	ErrInvalidPhone         = errors.New("手机号格式不正确")
	ErrInvalidEmail         = errors.New("邮箱格式不正确")
	ErrCustomerProtected    = errors.New("占位客户不允许修改或删除")

	ErrProductNotFound      = errors.New("商品不存在")
	ErrProductTitleRequired = errors.New("商品名称不能为空")
	ErrInvalidProductType   = errors.New("商品类型不正确")
	ErrInvalidPrice         = errors.New("商品价格不正确")

	ErrInventoryNotFound    = errors.New("库存记录不存在")
	ErrInvalidStockQuantity = errors.New("入库数量必须大于 0")
	ErrStockPriceRequired   = errors.New("入库必须填写进货单价")

	ErrOrderNotFound        = errors.New("订单不存在")
	ErrOrderItemsRequired   = errors.New("订单至少需要一个订单项")
	ErrInvalidOrderItem     = errors.New("订单项不正确")
	ErrInvalidOrderStatus   = errors.New("订单状态不正确")
	ErrStatusNotTransitable = errors.New("当前订单状态不允许此变更")

	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrLoginRateLimited   = errors.New("登录尝试过于频繁，请稍后再试")
)
