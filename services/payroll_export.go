package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const payrollSheet = "Payroll"

var payrollHeadings = []string{
	"Employee Code", "Employee Name", "Designation", "Working Days", "Hours Worked",
	"Basic Salary", "Leaves Deducted", "Leave Deduction", "Gross Salary",
	"Total Deductions", "Net Salary", "Status",
}

// AmountInWords đọc số tiền thành chữ, phần lẻ ghi dạng cents
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()
	words := num2words.Convert(int(whole))
	if cents == 0 {
		return words + " only"
	}
	return fmt.Sprintf("%s and %02d/100", words, cents)
}

func salaryRow(s models.Salary, e *models.Employee) []interface{} {
	name, code, designation := "Unknown", "N/A", ""
	if e != nil {
		name, code, designation = e.FullName(), e.EmployeeCode, e.Designation
	}
	return []interface{}{
		code, name, designation, s.WorkingDays, s.HoursWorked.InexactFloat64(),
		s.BasicSalary.InexactFloat64(), s.LeavesDeducted, s.LeaveDeductionAmount.InexactFloat64(),
		s.GrossSalary.InexactFloat64(), s.TotalDeductions().InexactFloat64(),
		s.NetSalary.InexactFloat64(), s.Status,
	}
}

// ExportFilename là tên file xlsx của một kỳ lương
func ExportFilename(month, year int) string {
	return fmt.Sprintf("payroll-%04d-%02d.xlsx", year, month+1)
}

// Export ghi bảng lương một tháng ra file xlsx
func (s *PayrollService) Export(ctx context.Context, caller types.Caller, month, year int, w io.Writer) error {
	if err := authorize(caller, types.CapPayrollRun); err != nil {
		return err
	}
	salaries, err := s.List(ctx, caller, month, year)
	if err != nil {
		return err
	}
	employees, err := s.store.ListEmployees(ctx, "")
	if err != nil {
		return storeError(err, "")
	}
	byUser := make(map[uint]*models.Employee, len(employees))
	for i := range employees {
		byUser[employees[i].UserID] = &employees[i]
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", payrollSheet); err != nil {
		return err
	}

	for i, h := range payrollHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(payrollSheet, cell, h); err != nil {
			return err
		}
	}
	for r, salary := range salaries {
		for c, value := range salaryRow(salary, byUser[salary.UserID]) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(payrollSheet, cell, value); err != nil {
				return err
			}
		}
	}

	title := strings.TrimSpace(fmt.Sprintf("%s payroll %04d-%02d", s.companyName, year, month+1))
	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: s.companyName}); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
