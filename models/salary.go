package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deduction là một khoản khấu trừ có tên trên phiếu lương
type Deduction struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Salary là bảng lương tháng của nhân viên, Month tính từ 0
type Salary struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_salary_user_period;not null" json:"userId"`
	Month  int  `gorm:"uniqueIndex:idx_salary_user_period;not null" json:"month"`
	Year   int  `gorm:"uniqueIndex:idx_salary_user_period;not null" json:"year"`

	BasicSalary          decimal.Decimal `gorm:"type:numeric(14,2)" json:"basicSalary"`
	HourlyRate           decimal.Decimal `gorm:"type:numeric(14,2)" json:"hourlyRate"`
	HoursWorked          decimal.Decimal `gorm:"type:numeric(8,2)" json:"hoursWorked"`
	WorkingDays          int             `json:"workingDays"`
	GrossSalary          decimal.Decimal `gorm:"type:numeric(14,2)" json:"grossSalary"`
	NetSalary            decimal.Decimal `gorm:"type:numeric(14,2)" json:"netSalary"`
	Deductions           []Deduction     `gorm:"serializer:json;type:jsonb" json:"deductions"`
	LeavesDeducted       int             `json:"leavesDeducted"`
	LeaveDeductionAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"leaveDeductionAmount"`
	Status               string          `gorm:"type:varchar(16);default:draft" json:"status"`
	PaidAt               *time.Time      `json:"paidAt,omitempty"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TotalDeductions sums every named deduction.
func (s *Salary) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}
