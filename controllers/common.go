package controllers

import (
	"strconv"
	"time"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/validator"

	"github.com/gin-gonic/gin"
)

const defaultLimit = 10

// bindJSON bind body vào req; lỗi đã được trả về client khi kết quả là false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.AppError(c, validator.Translate(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid "+name, err))
		return 0, false
	}
	return uint(id), true
}

// queryUint đọc query số nguyên dương, thiếu thì trả về 0
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid "+name, err))
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid "+name, err))
		return 0, false
	}
	return v, true
}

// parseDate đọc ngày YYYY-MM-DD, chuỗi rỗng trả về time.Time rỗng
func parseDate(c *gin.Context, name, raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := services.ParseDate(raw, loc)
	if err != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid "+name+", expected YYYY-MM-DD", err))
		return time.Time{}, false
	}
	return t, true
}

func queryDate(c *gin.Context, name string, loc *time.Location) (time.Time, bool) {
	return parseDate(c, name, c.Query(name), loc)
}

// pageParams đọc page (bắt đầu từ 0) và limit
func pageParams(c *gin.Context) (int, int) {
	page, limit := 0, defaultLimit
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p >= 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) []T {
	start := page * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// periodParams đọc kỳ từ ?period=YYYY-MM hoặc ?month=(0-11)&year=
func periodParams(c *gin.Context, now time.Time) (int, int, bool) {
	if period := c.Query("period"); period != "" {
		month, year, err := services.ParsePeriod(period)
		if err != nil {
			response.AppError(c, err)
			return 0, 0, false
		}
		return month, year, true
	}
	month, ok := queryInt(c, "month", int(now.Month())-1)
	if !ok {
		return 0, 0, false
	}
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return 0, 0, false
	}
	return month, year, true
}
