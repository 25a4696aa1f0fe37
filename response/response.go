package response

import (
	"net/http"

	apperrors "github.com/mihirmehra/employee-management-system/errors"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Success    bool                   `json:"success"`
	Code       int                    `json:"code"`
	Mess       string                 `json:"mess"`
	Data       interface{}            `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	ErrorCode  string                 `json:"errorCode,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Pagination *Pagination            `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, http.StatusOK, "Success", data)
}

// Created trả về 201 cho tài nguyên vừa tạo
func Created(c *gin.Context, message string, data interface{}) {
	SuccessWithMessage(c, http.StatusCreated, message, data)
}

func SuccessWithMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Code:    1,
		Mess:    message,
		Data:    data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    1,
		Mess:    "Success",
		Data:    data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error trả về response lỗi với status và errorCode cho trước
func Error(c *gin.Context, status int, code apperrors.ErrorCode, message string) {
	c.JSON(status, Response{
		Success:   false,
		Code:      0,
		Mess:      message,
		Error:     message,
		ErrorCode: string(code),
	})
}

// AppError chuyển lỗi của service thành response; lỗi không phải AppError là 500
func AppError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	c.JSON(apperrors.HTTPStatus(appErr.Code), Response{
		Success:   false,
		Code:      0,
		Mess:      appErr.Message,
		Error:     appErr.Message,
		ErrorCode: string(appErr.Code),
		Details:   appErr.Details,
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, apperrors.ErrCodeDBError, "Internal server error")
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, apperrors.ErrCodeMissingToken, "Unauthorized")
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, apperrors.ErrCodeUnauthorized, "Forbidden")
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, apperrors.ErrCodeNotFound, "Not found")
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, apperrors.ErrCodeValidation, message)
}
