package jobs

import (
	"context"
	"time"

	"github.com/mihirmehra/employee-management-system/commands"
	"github.com/mihirmehra/employee-management-system/services/logger"

	"github.com/robfig/cron/v3"
)

const (
	// 01:00 ngày 1 hàng tháng: tính lương draft của tháng trước
	MonthlyPayrollSpec = "0 1 1 * *"
	// 00:05 ngày 1/1: cấp số dư phép năm mới
	YearlyBalanceSpec = "5 0 1 1 *"

	jobTimeout = 30 * time.Minute
)

// Scheduler gom các phụ thuộc của cron jobs
type Scheduler struct {
	Payroll  commands.PayrollRunner
	Balances commands.BalanceProvisioner
	Logger   logger.Logger
	Location *time.Location
	Clock    func() time.Time
}

func (s *Scheduler) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Scheduler) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s *Scheduler) log() logger.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logger.Nop{}
}

// RunMonthlyPayroll tính lương draft cho tháng liền trước
func (s *Scheduler) RunMonthlyPayroll(ctx context.Context) error {
	month, year := commands.PreviousMonth(s.now(), s.loc())
	s.log().Info("Đang chạy tính lương tháng %d/%d", month+1, year)
	cmd := commands.NewRunPayrollCommand(s.Payroll, month, year)
	if err := cmd.Execute(ctx); err != nil {
		logger.LogError(s.log(), "jobs", "RunMonthlyPayroll", "monthly payroll", cmd.Report, err)
		return err
	}
	return nil
}

// ProvisionYearlyBalances cấp số dư phép cho năm hiện tại
func (s *Scheduler) ProvisionYearlyBalances(ctx context.Context) error {
	year := s.now().In(s.loc()).Year()
	cmd := commands.NewProvisionBalancesCommand(s.Balances, year)
	if err := cmd.Execute(ctx); err != nil {
		logger.LogError(s.log(), "jobs", "ProvisionYearlyBalances", "yearly balances", year, err)
		return err
	}
	s.log().Info("Đã cấp số dư phép năm %d cho %d nhân viên", year, cmd.Created)
	return nil
}

func (s *Scheduler) wrap(job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		_ = job(ctx)
	}
}

// InitCronJobs đăng ký các cron jobs và khởi động cron
func InitCronJobs(c *cron.Cron, s *Scheduler) error {
	if _, err := c.AddFunc(MonthlyPayrollSpec, s.wrap(s.RunMonthlyPayroll)); err != nil {
		return err
	}
	if _, err := c.AddFunc(YearlyBalanceSpec, s.wrap(s.ProvisionYearlyBalances)); err != nil {
		return err
	}

	c.Start()
	s.log().Info("Cron jobs initialized successfully")
	return nil
}
