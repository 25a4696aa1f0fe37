package services

import (
	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/models"

	"github.com/shopspring/decimal"
)

// FixedMonthDivisor is the day count a monthly salary is divided by to get a
// daily rate, whatever the calendar length of the month.
const FixedMonthDivisor = 30

var (
	ProvidentFundRate        = decimal.RequireFromString("0.12")
	ProfessionalTaxAmount    = decimal.NewFromInt(200)
	ProfessionalTaxThreshold = decimal.NewFromInt(15000)
)

// DeductionRule tính một khoản khấu trừ từ lương gộp
type DeductionRule struct {
	Name   string
	Amount func(gross decimal.Decimal) decimal.Decimal
}

var DefaultDeductionRules = []DeductionRule{
	{
		Name: "PF (12%)",
		Amount: func(gross decimal.Decimal) decimal.Decimal {
			return gross.Mul(ProvidentFundRate)
		},
	},
	{
		Name: "Professional Tax",
		Amount: func(gross decimal.Decimal) decimal.Decimal {
			if gross.GreaterThan(ProfessionalTaxThreshold) {
				return ProfessionalTaxAmount
			}
			return decimal.Zero
		},
	},
}

// PayrollInput là dữ liệu đầu vào của một kỳ lương
type PayrollInput struct {
	SalaryType      string
	MonthlySalary   decimal.Decimal
	HourlyRate      decimal.Decimal
	Attendance      []models.Attendance
	UnpaidLeaveDays int
}

type PayrollResult struct {
	BasicSalary          decimal.Decimal    `json:"basicSalary"`
	HourlyRate           decimal.Decimal    `json:"hourlyRate"`
	HoursWorked          decimal.Decimal    `json:"hoursWorked"`
	WorkingDays          int                `json:"workingDays"`
	GrossSalary          decimal.Decimal    `json:"grossSalary"`
	NetSalary            decimal.Decimal    `json:"netSalary"`
	Deductions           []models.Deduction `json:"deductions"`
	LeavesDeducted       int                `json:"leavesDeducted"`
	LeaveDeductionAmount decimal.Decimal    `json:"leaveDeductionAmount"`
}

// ComputePayroll applies the pay rules to one employee-month. Every money
// amount is rounded to 2 decimals; net is gross minus the rounded deductions.
// Hourly employees are paid for logged hours only: their unpaid leave days are
// reported but carry no deduction amount.
func ComputePayroll(in PayrollInput, rules []DeductionRule) PayrollResult {
	var r PayrollResult

	hours := decimal.Zero
	for _, a := range in.Attendance {
		hours = hours.Add(a.TotalHours)
		if a.Status == constants.AttendancePresent || a.Status == constants.AttendanceLate {
			r.WorkingDays++
		}
	}
	r.HoursWorked = hours.Round(2)
	r.HourlyRate = in.HourlyRate
	r.LeavesDeducted = in.UnpaidLeaveDays

	if in.SalaryType == constants.SalaryTypeHourly {
		r.BasicSalary = hours.Mul(in.HourlyRate).Round(2)
		r.GrossSalary = r.BasicSalary
		r.LeaveDeductionAmount = decimal.Zero
	} else {
		r.BasicSalary = in.MonthlySalary.Round(2)
		r.LeaveDeductionAmount = in.MonthlySalary.
			Mul(decimal.NewFromInt(int64(in.UnpaidLeaveDays))).
			Div(decimal.NewFromInt(FixedMonthDivisor)).
			Round(2)
		r.GrossSalary = r.BasicSalary.Sub(r.LeaveDeductionAmount)
	}

	total := decimal.Zero
	r.Deductions = make([]models.Deduction, 0, len(rules))
	for _, rule := range rules {
		amount := rule.Amount(r.GrossSalary).Round(2)
		r.Deductions = append(r.Deductions, models.Deduction{Name: rule.Name, Amount: amount})
		total = total.Add(amount)
	}
	r.NetSalary = r.GrossSalary.Sub(total)
	return r
}
