package dto

import "github.com/shopspring/decimal"

// ProvisionEmployeeRequest tạo tài khoản và hồ sơ nhân viên
type ProvisionEmployeeRequest struct {
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=6"`
	Role         string          `json:"role"`
	EmployeeCode string          `json:"employeeCode" binding:"required"`
	FirstName    string          `json:"firstName" binding:"required"`
	LastName     string          `json:"lastName"`
	Designation  string          `json:"designation"`
	SalaryType   string          `json:"salaryType"`
	Salary       decimal.Decimal `json:"salary"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	WorkingDays  []int64         `json:"workingDays" binding:"omitempty,dive,min=0,max=6"`
	JoiningDate  string          `json:"joiningDate" binding:"omitempty,date"`
}

type UpdateEmployeeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
