package dto

// CreateLeaveRequest là DTO cho yêu cầu tạo đơn nghỉ. UserID chỉ dùng khi HR nộp thay.
type CreateLeaveRequest struct {
	UserID    uint   `json:"userId"`
	LeaveType string `json:"leaveType" binding:"required"`
	StartDate string `json:"startDate" binding:"required,date"`
	EndDate   string `json:"endDate" binding:"required,date"`
	Reason    string `json:"reason" binding:"required"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

// SetAllocationRequest ghi đè số ngày phép được cấp. Year = 0 là năm hiện tại.
type SetAllocationRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	Year      int    `json:"year" binding:"omitempty,min=1"`
	LeaveType string `json:"leaveType" binding:"required"`
	Days      *int   `json:"days" binding:"required,min=0"`
}
