package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/notification"

	"github.com/xuri/excelize/v2"
)

type payrollFixture struct {
	store    *repository.GormStore
	locker   *LocalLocker
	notifier *notification.Recorder
	svc      *PayrollService
}

func newPayrollFixture(t *testing.T) *payrollFixture {
	t.Helper()
	store := newTestStore(t)
	locker := NewLocalLocker()
	rec := &notification.Recorder{}
	svc := NewPayrollService(PayrollServiceOptions{
		Store:       store,
		Locker:      locker,
		Notifier:    rec,
		Clock:       fixedClock(time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC)),
		Location:    time.UTC,
		CompanyName: "Acme",
	})
	return &payrollFixture{store: store, locker: locker, notifier: rec, svc: svc}
}

func (f *payrollFixture) employee(t *testing.T, e models.Employee) {
	t.Helper()
	if e.Status == "" {
		e.Status = constants.EmployeeStatusActive
	}
	if e.SalaryType == "" {
		e.SalaryType = constants.SalaryTypeFixed
	}
	if err := f.store.CreateEmployee(context.Background(), &e); err != nil {
		t.Fatal(err)
	}
}

func TestCalculateFixedSalary(t *testing.T) {
	f := newPayrollFixture(t)
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})

	salary, err := f.svc.Calculate(context.Background(), hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if !salary.GrossSalary.Equal(dec("30000")) || !salary.NetSalary.Equal(dec("26200")) {
		t.Fatalf("gross %s net %s", salary.GrossSalary, salary.NetSalary)
	}
	if salary.Status != constants.SalaryStatusDraft {
		t.Fatalf("status = %s", salary.Status)
	}
	if len(salary.Deductions) != 2 {
		t.Fatalf("deductions = %+v", salary.Deductions)
	}
}

func TestCalculateHourlySalary(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", SalaryType: constants.SalaryTypeHourly, HourlyRate: dec("500")})
	for day := 1; day <= 20; day++ {
		if err := f.store.CreateAttendance(ctx, &models.Attendance{
			UserID: 1, Date: d(2024, time.January, day), Status: constants.AttendancePresent, TotalHours: dec("8"),
		}); err != nil {
			t.Fatal(err)
		}
	}
	// outside the month, must be ignored
	if err := f.store.CreateAttendance(ctx, &models.Attendance{
		UserID: 1, Date: d(2024, time.February, 1), Status: constants.AttendancePresent, TotalHours: dec("8"),
	}); err != nil {
		t.Fatal(err)
	}

	salary, err := f.svc.Calculate(ctx, admin, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if !salary.GrossSalary.Equal(dec("80000")) || !salary.HoursWorked.Equal(dec("160")) {
		t.Fatalf("gross %s hours %s", salary.GrossSalary, salary.HoursWorked)
	}
	if salary.WorkingDays != 20 || !salary.LeaveDeductionAmount.IsZero() {
		t.Fatalf("working days %d leave deduction %s", salary.WorkingDays, salary.LeaveDeductionAmount)
	}
}

func TestCalculateHourlySalaryWithUnpaidLeave(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", SalaryType: constants.SalaryTypeHourly, HourlyRate: dec("500")})
	for day := 1; day <= 9; day++ {
		if err := f.store.CreateAttendance(ctx, &models.Attendance{
			UserID: 1, Date: d(2024, time.January, day), Status: constants.AttendancePresent, TotalHours: dec("8"),
		}); err != nil {
			t.Fatal(err)
		}
	}
	unpaid := &models.Leave{
		UserID:    1,
		LeaveType: constants.LeaveUnpaid,
		StartDate: d(2024, time.January, 10),
		EndDate:   d(2024, time.January, 12),
		Days:      3,
		Status:    constants.LeaveStatusApproved,
	}
	if err := f.store.CreateLeave(ctx, unpaid); err != nil {
		t.Fatal(err)
	}

	salary, err := f.svc.Calculate(ctx, admin, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if salary.LeavesDeducted != 3 || !salary.LeaveDeductionAmount.IsZero() {
		t.Fatalf("leaves deducted %d amount %s", salary.LeavesDeducted, salary.LeaveDeductionAmount)
	}
	if !salary.GrossSalary.Equal(dec("36000")) {
		t.Fatalf("gross %s, want 72h x 500", salary.GrossSalary)
	}
	stored, err := f.store.GetSalary(ctx, 1, 0, 2024)
	if err != nil || stored.LeavesDeducted != 3 {
		t.Fatalf("stored row: %+v %v", stored, err)
	}
}

func TestCalculateClipsCrossMonthUnpaidLeave(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})
	leaves := []models.Leave{
		{UserID: 1, LeaveType: constants.LeaveUnpaid, StartDate: d(2024, time.January, 30), EndDate: d(2024, time.February, 2), Days: 4, Status: constants.LeaveStatusApproved},
		{UserID: 1, LeaveType: constants.LeaveUnpaid, StartDate: d(2024, time.January, 10), EndDate: d(2024, time.January, 10), Days: 1, Status: constants.LeaveStatusPending},
		{UserID: 1, LeaveType: constants.LeaveCasual, StartDate: d(2024, time.January, 15), EndDate: d(2024, time.January, 16), Days: 2, Status: constants.LeaveStatusApproved},
	}
	for i := range leaves {
		if err := f.store.CreateLeave(ctx, &leaves[i]); err != nil {
			t.Fatal(err)
		}
	}

	jan, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if jan.LeavesDeducted != 2 || !jan.LeaveDeductionAmount.Equal(dec("2000")) || !jan.GrossSalary.Equal(dec("28000")) {
		t.Fatalf("january: days %d amount %s gross %s", jan.LeavesDeducted, jan.LeaveDeductionAmount, jan.GrossSalary)
	}

	feb, err := f.svc.Calculate(ctx, hr, 1, 1, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if feb.LeavesDeducted != 2 || !feb.LeaveDeductionAmount.Equal(dec("2000")) {
		t.Fatalf("february: days %d amount %s", feb.LeavesDeducted, feb.LeaveDeductionAmount)
	}
}

func TestCalculatePaidMonthIsUntouched(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})

	salary, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, hr, salary.ID); err != nil {
		t.Fatal(err)
	}
	paid, err := f.svc.MarkPaid(ctx, hr, salary.ID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.PaidAt == nil {
		t.Fatal("paidAt not set")
	}
	if len(f.notifier.Messages) != 1 {
		t.Fatalf("expected one salary.paid notification, got %d", len(f.notifier.Messages))
	}

	// salary raised after payment must not leak into the paid record
	e, _ := f.store.GetEmployeeByUserID(ctx, 1)
	e.Salary = dec("50000")
	if err := f.store.SaveEmployee(ctx, e); err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyPaid) {
		t.Fatalf("expected ALREADY_PAID, got %v", err)
	}
	stored, err := f.store.GetSalary(ctx, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != constants.SalaryStatusPaid || !stored.NetSalary.Equal(dec("26200")) {
		t.Fatalf("paid record changed: %+v", stored)
	}
}

func TestRecalculateProcessedGoesBackToDraft(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})

	first, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, hr, first.ID); err != nil {
		t.Fatal(err)
	}
	again, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID || again.Status != constants.SalaryStatusDraft {
		t.Fatalf("recalculated row: id %d status %s", again.ID, again.Status)
	}
	all, _ := f.store.ListSalaries(ctx, repository.SalaryFilter{Month: -1})
	if len(all) != 1 {
		t.Fatalf("expected one row, got %d", len(all))
	}
}

func TestSalaryTransitions(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})
	salary, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.MarkPaid(ctx, hr, salary.ID); !apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition) {
		t.Fatalf("draft -> paid: got %v", err)
	}
	if _, err := f.svc.Process(ctx, hr, salary.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, hr, salary.ID); !apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition) {
		t.Fatalf("processed -> processed: got %v", err)
	}
	if _, err := f.svc.MarkPaid(ctx, employee, salary.ID); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee marking paid: got %v", err)
	}
	if _, err := f.svc.MarkPaid(ctx, hr, salary.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, hr, salary.ID); !apperrors.HasCode(err, apperrors.ErrCodeAlreadyPaid) {
		t.Fatalf("paid -> processed: got %v", err)
	}
	if _, err := f.svc.Process(ctx, hr, 999); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("missing salary: got %v", err)
	}
}

func TestCalculateGuards(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})

	tests := []struct {
		name   string
		userID uint
		month  int
		year   int
		code   apperrors.ErrorCode
	}{
		{name: "employee caller", userID: 1, month: 0, year: 2024, code: apperrors.ErrCodeUnauthorized},
		{name: "month too large", userID: 1, month: 12, year: 2024, code: apperrors.ErrCodeValidation},
		{name: "negative month", userID: 1, month: -1, year: 2024, code: apperrors.ErrCodeValidation},
		{name: "zero year", userID: 1, month: 0, year: 0, code: apperrors.ErrCodeValidation},
		{name: "no employee id", userID: 0, month: 0, year: 2024, code: apperrors.ErrCodeValidation},
		{name: "unknown employee", userID: 7, month: 0, year: 2024, code: apperrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := hr
			if tt.code == apperrors.ErrCodeUnauthorized {
				caller = employee
			}
			_, err := f.svc.Calculate(ctx, caller, tt.userID, tt.month, tt.year)
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCalculateWhileLocked(t *testing.T) {
	f := newPayrollFixture(t)
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})

	release, err := f.locker.Obtain(context.Background(), payrollLockKey(1, 0, 2024))
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.svc.Calculate(ctx, hr, 1, 0, 2024); !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	month, year, err := ParsePeriod("2024-03")
	if err != nil || month != 2 || year != 2024 {
		t.Fatalf("got %d %d %v", month, year, err)
	}
	for _, bad := range []string{"", "2024", "2024-13", "2024-00", "march-2024"} {
		if _, _, err := ParsePeriod(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestSalaryListingIsScoped(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})
	f.employee(t, models.Employee{UserID: 2, EmployeeCode: "E002", Salary: dec("20000")})
	report, err := f.svc.RunMonth(ctx, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.Calculated != 2 {
		t.Fatalf("report = %+v", report)
	}

	all, err := f.svc.List(ctx, hr, 0, 2024)
	if err != nil || len(all) != 2 {
		t.Fatalf("hr list: %d %v", len(all), err)
	}
	own, err := f.svc.List(ctx, employee, 0, 2024)
	if err != nil || len(own) != 1 || own[0].UserID != employee.UserID {
		t.Fatalf("employee list: %+v %v", own, err)
	}
	mine, err := f.svc.Mine(ctx, employee)
	if err != nil || len(mine) != 1 {
		t.Fatalf("mine: %+v %v", mine, err)
	}
}

func TestPayslipAccess(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", FirstName: "Linh", LastName: "Tran", Designation: "Engineer", Salary: dec("30000")})
	f.employee(t, models.Employee{UserID: 2, EmployeeCode: "E002", Salary: dec("20000")})
	salary, err := f.svc.CalculateByMonth(ctx, hr, 1, "2024-01")
	if err != nil {
		t.Fatal(err)
	}

	slip, err := f.svc.Payslip(ctx, employee, salary.ID)
	if err != nil {
		t.Fatal(err)
	}
	if slip.EmployeeName != "Linh Tran" || slip.MonthName != "January" || !slip.TotalDeductions.Equal(dec("3800")) {
		t.Fatalf("payslip = %+v", slip)
	}

	other := employee
	other.UserID = 2
	if _, err := f.svc.Payslip(ctx, other, salary.ID); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("foreign payslip: got %v", err)
	}
	if _, err := f.svc.Payslip(ctx, admin, salary.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Payslip(ctx, admin, 999); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("missing payslip: got %v", err)
	}
}

func TestRunMonthSkipsPaid(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", Salary: dec("30000")})
	f.employee(t, models.Employee{UserID: 2, EmployeeCode: "E002", Salary: dec("20000")})
	f.employee(t, models.Employee{UserID: 3, EmployeeCode: "E003", Salary: dec("20000"), Status: constants.EmployeeStatusInactive})

	salary, err := f.svc.Calculate(ctx, hr, 1, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Process(ctx, hr, salary.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.MarkPaid(ctx, hr, salary.ID); err != nil {
		t.Fatal(err)
	}

	report, err := f.svc.RunMonth(ctx, 0, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.Calculated != 1 || report.SkippedPaid != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestExportPayrollWorkbook(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	f.employee(t, models.Employee{UserID: 1, EmployeeCode: "E001", FirstName: "Lan", Salary: dec("30000")})
	if _, err := f.svc.Calculate(ctx, hr, 1, 0, 2024); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := f.svc.Export(ctx, employee, 0, 2024, &buf); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employees cannot export, got %v", err)
	}
	if err := f.svc.Export(ctx, hr, 0, 2024, &buf); err != nil {
		t.Fatal(err)
	}

	book, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := book.GetRows("Payroll")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][0] != "E001" || rows[1][1] != "Lan" || rows[1][10] != "26200" {
		t.Fatalf("row = %v", rows[1])
	}
	if ExportFilename(0, 2024) != "payroll-2024-01.xlsx" {
		t.Fatalf("filename = %s", ExportFilename(0, 2024))
	}
}

func TestAmountInWords(t *testing.T) {
	if got := AmountInWords(dec("26200")); !strings.HasPrefix(got, "twenty") || !strings.HasSuffix(got, " only") {
		t.Fatalf("AmountInWords(26200) = %q", got)
	}
	if got := AmountInWords(dec("12.5")); !strings.HasSuffix(got, "and 50/100") {
		t.Fatalf("AmountInWords(12.5) = %q", got)
	}
}
