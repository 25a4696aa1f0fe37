package dto

// CalculateSalaryRequest nhận kỳ lương dạng month (0-11) + year, hoặc period "YYYY-MM"
type CalculateSalaryRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Month  *int   `json:"month" binding:"omitempty,min=0,max=11"`
	Year   int    `json:"year" binding:"omitempty,min=1"`
	Period string `json:"period" binding:"omitempty,period"`
}

type RunPayrollRequest struct {
	Month *int `json:"month" binding:"required,min=0,max=11"`
	Year  int  `json:"year" binding:"required,min=1"`
}
