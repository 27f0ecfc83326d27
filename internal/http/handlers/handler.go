package handlers

import (
	"errors"
	"strconv"

	"github.com/keyshop-admin/internal/http/response"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/provider"
	"github.com/keyshop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 后台管理接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// requestLog 提供携带 request_id 的日志实例
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，并在有原始错误时记录日志
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// 业务错误到响应码的映射
var serviceErrorCodes = map[error]int{
	service.ErrCustomerNotFound:     response.CodeNotFound,
	service.ErrCustomerNameRequired: response.CodeBadRequest,
	service.ErrInvalidPhone:         response.CodeBadRequest,
	service.ErrInvalidEmail:         response.CodeBadRequest,
	service.ErrCustomerProtected:    response.CodeForbidden,

	service.ErrProductNotFound:      response.CodeNotFound,
	service.ErrProductTitleRequired: response.CodeBadRequest,
	service.ErrInvalidProductType:   response.CodeBadRequest,
	service.ErrInvalidPrice:         response.CodeBadRequest,

	service.ErrInventoryNotFound:    response.CodeNotFound,
	service.ErrInvalidStockQuantity: response.CodeBadRequest,
	service.ErrStockPriceRequired:   response.CodeBadRequest,

	service.ErrOrderNotFound:        response.CodeNotFound,
	service.ErrOrderItemsRequired:   response.CodeBadRequest,
	service.ErrInvalidOrderItem:     response.CodeBadRequest,
	service.ErrInvalidOrderStatus:   response.CodeBadRequest,
	service.ErrStatusNotTransitable: response.CodeConflict,

	service.ErrInvalidCredentials: response.CodeUnauthorized,
	service.ErrLoginRateLimited:   response.CodeTooManyRequests,
}

// respondServiceError 将业务错误映射为响应；未知错误按内部错误处理
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	for target, code := range serviceErrorCodes {
		if errors.Is(err, target) {
			response.Error(c, code, target.Error())
			return
		}
	}
	respondError(c, response.CodeInternal, fallbackMsg, err)
}

// parseIDParam 解析路径里的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "无效的 ID", nil)
		return 0, false
	}
	return uint(parsed), true
}

// parsePagination 解析分页参数并归一化
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return normalizePagination(page, pageSize)
}

// normalizePagination 归一化分页参数
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
