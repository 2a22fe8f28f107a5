package util

import (
	"net/http"

	"qurio_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
// swagger:model
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

func NewPagination(page, limit int, totalItems int64) *Pagination {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Paginated(c *gin.Context, data interface{}, pagination *Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Terjadi kesalahan server.")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	Error(c, http.StatusInternalServerError, err.Error())
}
