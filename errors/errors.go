package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"

	// Lookup errors
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeBalanceNotFound ErrorCode = "BALANCE_NOT_FOUND"

	// Business errors
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeAlreadyProcessed    ErrorCode = "ALREADY_PROCESSED"
	ErrCodeAlreadyPaid         ErrorCode = "ALREADY_PAID"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict            ErrorCode = "CONFLICT"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"

	// Upstream errors
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail attaches a key/value pair to the error payload.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// HTTPStatus maps an error code onto the status written at the HTTP boundary.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusForbidden
	case ErrCodeInvalidToken, ErrCodeMissingToken:
		return http.StatusUnauthorized
	case ErrCodeNotFound, ErrCodeBalanceNotFound:
		return http.StatusNotFound
	case ErrCodeInsufficientBalance, ErrCodeAlreadyProcessed, ErrCodeAlreadyPaid,
		ErrCodeInvalidTransition, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Unauthorized(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, nil)
}

func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

func Database(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

func BalanceNotFound(message string) *AppError {
	return NewAppError(ErrCodeBalanceNotFound, message, nil)
}

func AlreadyProcessed(message string) *AppError {
	return NewAppError(ErrCodeAlreadyProcessed, message, nil)
}

func AlreadyPaid(message string) *AppError {
	return NewAppError(ErrCodeAlreadyPaid, message, nil)
}

func InvalidTransition(message string) *AppError {
	return NewAppError(ErrCodeInvalidTransition, message, nil)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(ErrCodeConflict, message, err)
}

// InsufficientBalance carries the category and the days still available.
func InsufficientBalance(category string, available int) *AppError {
	return NewAppError(ErrCodeInsufficientBalance,
		fmt.Sprintf("Insufficient %s leave balance. Available: %d days", category, available), nil).
		WithDetail("category", category).
		WithDetail("available", available)
}
