package commands

import (
	"context"
	"time"

	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/types"
)

// Command định nghĩa interface cho các command chạy nền hoặc từ CLI
type Command interface {
	Execute(ctx context.Context) error
}

// PayrollRunner tính lương draft cho cả công ty
type PayrollRunner interface {
	RunMonth(ctx context.Context, month, year int) (services.RunReport, error)
}

// BalanceProvisioner tạo số dư phép đầu năm
type BalanceProvisioner interface {
	ProvisionYear(ctx context.Context, year int) (int, error)
}

// TokenIssuer ký token cho một caller
type TokenIssuer interface {
	Issue(caller types.Caller) (string, error)
}

// PreviousMonth trả về tháng (0-11) và năm liền trước thời điểm now
func PreviousMonth(now time.Time, loc *time.Location) (int, int) {
	now = now.In(loc)
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
	return int(prev.Month()) - 1, prev.Year()
}

// RunPayrollCommand command để tính lương tháng cho mọi nhân viên
type RunPayrollCommand struct {
	runner PayrollRunner
	month  int
	year   int
	Report services.RunReport
}

func NewRunPayrollCommand(runner PayrollRunner, month, year int) *RunPayrollCommand {
	return &RunPayrollCommand{
		runner: runner,
		month:  month,
		year:   year,
	}
}

func (c *RunPayrollCommand) Execute(ctx context.Context) error {
	report, err := c.runner.RunMonth(ctx, c.month, c.year)
	c.Report = report
	return err
}

// ProvisionBalancesCommand command để cấp số dư phép cho một năm
type ProvisionBalancesCommand struct {
	provisioner BalanceProvisioner
	year        int
	Created     int
}

func NewProvisionBalancesCommand(provisioner BalanceProvisioner, year int) *ProvisionBalancesCommand {
	return &ProvisionBalancesCommand{
		provisioner: provisioner,
		year:        year,
	}
}

func (c *ProvisionBalancesCommand) Execute(ctx context.Context) error {
	created, err := c.provisioner.ProvisionYear(ctx, c.year)
	c.Created = created
	return err
}

// IssueTokenCommand command để ký token cho vận hành và môi trường dev
type IssueTokenCommand struct {
	issuer TokenIssuer
	caller types.Caller
	Token  string
}

func NewIssueTokenCommand(issuer TokenIssuer, caller types.Caller) *IssueTokenCommand {
	return &IssueTokenCommand{
		issuer: issuer,
		caller: caller,
	}
}

func (c *IssueTokenCommand) Execute(ctx context.Context) error {
	token, err := c.issuer.Issue(c.caller)
	c.Token = token
	return err
}
