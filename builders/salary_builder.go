package builders

import (
	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/models"

	"github.com/shopspring/decimal"
)

// SalaryBuilder giúp tạo bảng lương theo từng bước
type SalaryBuilder struct {
	salary *models.Salary
}

// NewSalaryBuilder tạo instance mới của SalaryBuilder, trạng thái mặc định là draft
func NewSalaryBuilder() *SalaryBuilder {
	return &SalaryBuilder{
		salary: &models.Salary{Status: constants.SalaryStatusDraft},
	}
}

// ForPeriod gán nhân viên và kỳ lương (tháng tính từ 0)
func (b *SalaryBuilder) ForPeriod(userID uint, month, year int) *SalaryBuilder {
	b.salary.UserID = userID
	b.salary.Month = month
	b.salary.Year = year
	return b
}

// WithPay thêm lương cơ bản, gộp và thực nhận
func (b *SalaryBuilder) WithPay(basic, gross, net decimal.Decimal) *SalaryBuilder {
	b.salary.BasicSalary = basic
	b.salary.GrossSalary = gross
	b.salary.NetSalary = net
	return b
}

// WithHours thêm đơn giá giờ và số giờ làm
func (b *SalaryBuilder) WithHours(rate, hours decimal.Decimal) *SalaryBuilder {
	b.salary.HourlyRate = rate
	b.salary.HoursWorked = hours
	return b
}

func (b *SalaryBuilder) WithWorkingDays(days int) *SalaryBuilder {
	b.salary.WorkingDays = days
	return b
}

// WithLeaveDeduction thêm số ngày nghỉ không lương bị trừ
func (b *SalaryBuilder) WithLeaveDeduction(days int, amount decimal.Decimal) *SalaryBuilder {
	b.salary.LeavesDeducted = days
	b.salary.LeaveDeductionAmount = amount
	return b
}

func (b *SalaryBuilder) WithDeductions(deductions []models.Deduction) *SalaryBuilder {
	b.salary.Deductions = deductions
	return b
}

// Existing keeps the identity of a row being recalculated.
func (b *SalaryBuilder) Existing(current *models.Salary) *SalaryBuilder {
	if current != nil {
		b.salary.ID = current.ID
		b.salary.CreatedAt = current.CreatedAt
	}
	return b
}

// Build tạo bảng lương hoàn chỉnh
func (b *SalaryBuilder) Build() *models.Salary {
	return b.salary
}
