package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/types"
)

type fakeRunner struct {
	month, year int
	report      services.RunReport
	err         error
}

func (f *fakeRunner) RunMonth(ctx context.Context, month, year int) (services.RunReport, error) {
	f.month, f.year = month, year
	return f.report, f.err
}

type fakeProvisioner struct {
	year int
}

func (f *fakeProvisioner) ProvisionYear(ctx context.Context, year int) (int, error) {
	f.year = year
	return 3, nil
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		now         time.Time
		month, year int
	}{
		{time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), 1, 2024},
		{time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), 11, 2023},
		{time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), 10, 2024},
	}
	for _, tt := range tests {
		month, year := PreviousMonth(tt.now, time.UTC)
		if month != tt.month || year != tt.year {
			t.Errorf("%s: got %d/%d, want %d/%d", tt.now, month, year, tt.month, tt.year)
		}
	}
}

func TestRunPayrollCommand(t *testing.T) {
	runner := &fakeRunner{report: services.RunReport{Calculated: 4, SkippedPaid: 1}}
	cmd := NewRunPayrollCommand(runner, 1, 2024)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if runner.month != 1 || runner.year != 2024 || cmd.Report.Calculated != 4 {
		t.Fatalf("runner %d/%d report %+v", runner.month, runner.year, cmd.Report)
	}

	runner.err = errors.New("db down")
	if err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestProvisionBalancesCommand(t *testing.T) {
	p := &fakeProvisioner{}
	cmd := NewProvisionBalancesCommand(p, 2025)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.year != 2025 || cmd.Created != 3 {
		t.Fatalf("year %d created %d", p.year, cmd.Created)
	}
}

func TestIssueTokenCommand(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	caller := types.Caller{UserID: 5, Role: constants.RoleHR}
	cmd := NewIssueTokenCommand(tokens, caller)
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, err := tokens.GetCallerFromToken(cmd.Token)
	if err != nil || got != caller {
		t.Fatalf("caller %+v err %v", got, err)
	}
}
