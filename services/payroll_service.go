package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/builders"
	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/services/notification"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/shopspring/decimal"
)

const recentSalaryLimit = 12

func payrollLockKey(userID uint, month, year int) string {
	return fmt.Sprintf("payroll:%d:%d:%d", userID, month, year)
}

// PayrollServiceOptions gom các phụ thuộc của PayrollService
type PayrollServiceOptions struct {
	Store       repository.Store
	Locker      Locker
	Notifier    notification.Service
	Logger      logger.Logger
	Clock       func() time.Time
	Location    *time.Location
	Rules       []DeductionRule
	CompanyName string
}

// PayrollService tính lương tháng và quản lý vòng đời bảng lương
type PayrollService struct {
	store       repository.Store
	locker      Locker
	notifier    notification.Service
	logger      logger.Logger
	now         func() time.Time
	loc         *time.Location
	rules       []DeductionRule
	companyName string
}

func NewPayrollService(opts PayrollServiceOptions) *PayrollService {
	s := &PayrollService{
		store:       opts.Store,
		locker:      opts.Locker,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		now:         opts.Clock,
		loc:         opts.Location,
		rules:       opts.Rules,
		companyName: opts.CompanyName,
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.rules == nil {
		s.rules = DefaultDeductionRules
	}
	return s
}

func validatePeriod(month, year int) error {
	if month < 0 || month > 11 {
		return apperrors.Validation("Month must be between 0 and 11").WithDetail("month", month)
	}
	if year <= 0 {
		return apperrors.Validation("Year must be positive").WithDetail("year", year)
	}
	return nil
}

// ParsePeriod đọc kỳ lương dạng "YYYY-MM" thành tháng (0-11) và năm
func ParsePeriod(period string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(period), "-")
	if len(parts) != 2 {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Month must be in YYYY-MM format", nil)
	}
	year, yErr := strconv.Atoi(parts[0])
	month, mErr := strconv.Atoi(parts[1])
	if yErr != nil || mErr != nil {
		return 0, 0, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Month must be in YYYY-MM format", nil)
	}
	month--
	if err := validatePeriod(month, year); err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

// Calculate tính (hoặc tính lại) bảng lương draft của một nhân viên cho tháng month (0-11)
func (s *PayrollService) Calculate(ctx context.Context, caller types.Caller, userID uint, month, year int) (*models.Salary, error) {
	if err := authorize(caller, types.CapPayrollRun); err != nil {
		return nil, err
	}
	return s.calculate(ctx, userID, month, year)
}

// CalculateByMonth giống Calculate nhưng nhận kỳ lương "YYYY-MM"
func (s *PayrollService) CalculateByMonth(ctx context.Context, caller types.Caller, userID uint, period string) (*models.Salary, error) {
	if err := authorize(caller, types.CapPayrollRun); err != nil {
		return nil, err
	}
	month, year, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, userID, month, year)
}

func (s *PayrollService) calculate(ctx context.Context, userID uint, month, year int) (*models.Salary, error) {
	if userID == 0 {
		return nil, apperrors.Validation("Employee is required")
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	employee, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Employee not found")
	}

	release, err := s.locker.Obtain(ctx, payrollLockKey(userID, month, year))
	if stderrors.Is(err, ErrLockNotObtained) {
		return nil, apperrors.Conflict("Payroll for this month is being calculated", err)
	}
	if err != nil {
		return nil, apperrors.Conflict("Could not lock payroll period", err)
	}
	defer release()

	first, last := MonthBounds(month, year, s.loc)

	var saved *models.Salary
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.LockSalary(ctx, userID, month, year)
		if err != nil && !stderrors.Is(err, repository.ErrRecordNotFound) {
			return storeError(err, "")
		}
		if current != nil {
			if err := models.GetSalaryState(current.Status).Recalculate(current); err != nil {
				return salaryStateError(err)
			}
		}

		attendance, err := tx.ListAttendance(ctx, repository.AttendanceFilter{UserID: userID, From: first, To: last})
		if err != nil {
			return storeError(err, "")
		}
		unpaid, err := tx.ListApprovedLeaves(ctx, userID, constants.LeaveUnpaid, first, last)
		if err != nil {
			return storeError(err, "")
		}
		unpaidDays := 0
		for _, l := range unpaid {
			unpaidDays += OverlapDays(l.StartDate, l.EndDate, first, last)
		}

		result := ComputePayroll(PayrollInput{
			SalaryType:      employee.SalaryType,
			MonthlySalary:   employee.Salary,
			HourlyRate:      employee.HourlyRate,
			Attendance:      attendance,
			UnpaidLeaveDays: unpaidDays,
		}, s.rules)

		salary := builders.NewSalaryBuilder().
			Existing(current).
			ForPeriod(userID, month, year).
			WithPay(result.BasicSalary, result.GrossSalary, result.NetSalary).
			WithHours(result.HourlyRate, result.HoursWorked).
			WithWorkingDays(result.WorkingDays).
			WithLeaveDeduction(result.LeavesDeducted, result.LeaveDeductionAmount).
			WithDeductions(result.Deductions).
			Build()
		if err := tx.SaveSalary(ctx, salary); err != nil {
			return storeError(err, "")
		}
		saved = salary
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) || apperrors.HasCode(err, apperrors.ErrCodeDBError) {
			logger.LogError(s.logger, "payroll", "calculate", "payroll transaction", payrollLockKey(userID, month, year), err)
		}
		return nil, err
	}
	s.logger.Info("salary calculated for user %d period %d/%d: gross %s net %s",
		userID, month+1, year, saved.GrossSalary.StringFixed(2), saved.NetSalary.StringFixed(2))
	return saved, nil
}

func salaryStateError(err error) error {
	switch {
	case stderrors.Is(err, models.ErrSalaryAlreadyPaid):
		return apperrors.AlreadyPaid("Salary already paid for this month")
	case stderrors.Is(err, models.ErrSalaryInvalidTransition):
		return apperrors.InvalidTransition("Invalid salary status transition")
	}
	return err
}

// Process chuyển bảng lương draft sang processed
func (s *PayrollService) Process(ctx context.Context, caller types.Caller, salaryID uint) (*models.Salary, error) {
	if err := authorize(caller, types.CapPayrollRun); err != nil {
		return nil, err
	}
	salary, err := s.store.GetSalaryByID(ctx, salaryID)
	if err != nil {
		return nil, storeError(err, "Salary record not found")
	}
	from := salary.Status
	if err := models.GetSalaryState(from).Process(salary); err != nil {
		return nil, salaryStateError(err)
	}
	if err := s.transition(ctx, salary.ID, from, salary.Status, nil); err != nil {
		return nil, err
	}
	return salary, nil
}

// MarkPaid chuyển bảng lương processed sang paid và báo cho nhân viên
func (s *PayrollService) MarkPaid(ctx context.Context, caller types.Caller, salaryID uint) (*models.Salary, error) {
	if err := authorize(caller, types.CapPayrollRun); err != nil {
		return nil, err
	}
	salary, err := s.store.GetSalaryByID(ctx, salaryID)
	if err != nil {
		return nil, storeError(err, "Salary record not found")
	}
	from := salary.Status
	if err := models.GetSalaryState(from).MarkPaid(salary, s.now()); err != nil {
		return nil, salaryStateError(err)
	}
	if err := s.transition(ctx, salary.ID, from, salary.Status, salary.PaidAt); err != nil {
		return nil, err
	}

	s.notify(notification.NewMessageBuilder(notification.EventSalaryPaid, salary.UserID).
		WithMessage("Your salary for %s %d was paid", time.Month(salary.Month+1), salary.Year).
		WithData(salary).
		Build())
	s.logger.Info("salary %d marked paid by user %d", salary.ID, caller.UserID)
	return salary, nil
}

func (s *PayrollService) transition(ctx context.Context, id uint, from, to string, paidAt *time.Time) error {
	err := s.store.TransitionSalary(ctx, id, from, to, paidAt)
	if stderrors.Is(err, repository.ErrStatusConflict) {
		return apperrors.InvalidTransition("Salary status changed concurrently")
	}
	if err != nil {
		return storeError(err, "Salary record not found")
	}
	return nil
}

// List trả về bảng lương của một tháng; nhân viên chỉ thấy của mình
func (s *PayrollService) List(ctx context.Context, caller types.Caller, month, year int) ([]models.Salary, error) {
	if caller.UserID == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	filter := repository.SalaryFilter{Month: month, Year: year}
	if !caller.Can(types.CapPayrollRun) {
		filter.UserID = caller.UserID
	}
	salaries, err := s.store.ListSalaries(ctx, filter)
	if err != nil {
		return nil, storeError(err, "")
	}
	return salaries, nil
}

// Mine trả về 12 bảng lương gần nhất của người gọi
func (s *PayrollService) Mine(ctx context.Context, caller types.Caller) ([]models.Salary, error) {
	if caller.UserID == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	salaries, err := s.store.ListSalaries(ctx, repository.SalaryFilter{
		UserID: caller.UserID,
		Month:  -1,
		Limit:  recentSalaryLimit,
	})
	if err != nil {
		return nil, storeError(err, "")
	}
	return salaries, nil
}

// Payslip là phiếu lương hiển thị cho nhân viên
type Payslip struct {
	CompanyName     string          `json:"companyName,omitempty"`
	EmployeeName    string          `json:"employeeName"`
	EmployeeCode    string          `json:"employeeCode"`
	Designation     string          `json:"designation"`
	MonthName       string          `json:"monthName"`
	Year            int             `json:"year"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetInWords      string          `json:"netInWords"`
	Salary          *models.Salary  `json:"salary"`
}

// Payslip: chủ bảng lương hoặc admin/hr được xem
func (s *PayrollService) Payslip(ctx context.Context, caller types.Caller, salaryID uint) (*Payslip, error) {
	salary, err := s.store.GetSalaryByID(ctx, salaryID)
	if err != nil {
		return nil, storeError(err, "Salary record not found")
	}
	if err := authorizeSelfOr(caller, salary.UserID, types.CapPayrollRun); err != nil {
		return nil, err
	}
	employee, err := s.store.GetEmployeeByUserID(ctx, salary.UserID)
	if err != nil {
		return nil, storeError(err, "Employee not found")
	}
	return &Payslip{
		CompanyName:     s.companyName,
		EmployeeName:    employee.FullName(),
		EmployeeCode:    employee.EmployeeCode,
		Designation:     employee.Designation,
		MonthName:       time.Month(salary.Month + 1).String(),
		Year:            salary.Year,
		TotalDeductions: salary.TotalDeductions(),
		NetInWords:      AmountInWords(salary.NetSalary),
		Salary:          salary,
	}, nil
}

// RunReport tóm tắt một lần chạy lương hàng loạt
type RunReport struct {
	Calculated  int `json:"calculated"`
	SkippedPaid int `json:"skippedPaid"`
	Failed      int `json:"failed"`
}

// RunMonth tính lương draft cho mọi nhân viên đang làm việc. Tháng đã trả
// được bỏ qua, lỗi của một nhân viên không dừng cả lượt.
func (s *PayrollService) RunMonth(ctx context.Context, month, year int) (RunReport, error) {
	var report RunReport
	if err := validatePeriod(month, year); err != nil {
		return report, err
	}
	employees, err := s.store.ListEmployees(ctx, constants.EmployeeStatusActive)
	if err != nil {
		return report, storeError(err, "")
	}
	for _, e := range employees {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		_, err := s.calculate(ctx, e.UserID, month, year)
		switch {
		case err == nil:
			report.Calculated++
		case apperrors.HasCode(err, apperrors.ErrCodeAlreadyPaid):
			report.SkippedPaid++
		default:
			report.Failed++
			s.logger.Error("payroll run %d/%d failed for user %d: %v", month+1, year, e.UserID, err)
		}
	}

	s.notify(notification.NewMessageBuilder(notification.EventPayrollRun, 0).
		WithMessage("Payroll for %s %d calculated", time.Month(month+1), year).
		WithData(report).
		Build())
	s.logger.Info("payroll run %d/%d: %d calculated, %d already paid, %d failed",
		month+1, year, report.Calculated, report.SkippedPaid, report.Failed)
	return report, nil
}

func (s *PayrollService) notify(message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.logger.Debug("notification not sent: %v", err)
	}
}
