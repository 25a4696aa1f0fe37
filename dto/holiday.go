package dto

// HolidayRequest là DTO cho tạo/sửa holiday, ngày dạng YYYY-MM-DD
type HolidayRequest struct {
	Name     string `json:"name" binding:"required"`
	FromDate string `json:"fromDate" binding:"required,date"`
	ToDate   string `json:"toDate" binding:"required,date"`
}

// DeleteHolidayRequest là DTO cho yêu cầu xóa holiday
type DeleteHolidayRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}
