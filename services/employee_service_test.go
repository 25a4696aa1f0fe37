package services

import (
	"context"
	"testing"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/repository"

	"golang.org/x/crypto/bcrypt"
)

func newEmployeeService(store repository.Store, cache Cache) *EmployeeService {
	return NewEmployeeService(EmployeeServiceOptions{
		Store:    store,
		Cache:    cache,
		Clock:    fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		Location: time.UTC,
		HashCost: bcrypt.MinCost,
	})
}

func validProvision() ProvisionEmployeeInput {
	return ProvisionEmployeeInput{
		Email:        " Linh.Tran@Example.com ",
		Password:     "s3cret!",
		EmployeeCode: "E001",
		FirstName:    "Linh",
		LastName:     "Tran",
		Designation:  "Engineer",
		SalaryType:   "Fixed",
		Salary:       dec("30000"),
	}
}

func TestProvisionCreatesUserEmployeeAndBalance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newEmployeeService(store, nil)

	e, err := svc.Provision(ctx, hr, validProvision())
	if err != nil {
		t.Fatal(err)
	}
	if e.User == nil || e.User.Email != "linh.tran@example.com" || e.User.Role != constants.RoleEmployee {
		t.Fatalf("user = %+v", e.User)
	}
	if e.User.Password != "" {
		t.Fatal("password hash leaked into the result")
	}
	if e.SalaryType != constants.SalaryTypeFixed || e.Status != constants.EmployeeStatusActive {
		t.Fatalf("employee = %+v", e)
	}

	balance, err := store.GetLeaveBalance(ctx, e.UserID, 2024)
	if err != nil {
		t.Fatalf("balance for current year: %v", err)
	}
	if balance.Available(constants.LeaveCasual) != constants.DefaultLeaveAllocation[constants.LeaveCasual] {
		t.Fatalf("casual available = %d", balance.Available(constants.LeaveCasual))
	}
}

func TestProvisionRollsBackOnDuplicateCode(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newEmployeeService(store, nil)
	if _, err := svc.Provision(ctx, hr, validProvision()); err != nil {
		t.Fatal(err)
	}

	in := validProvision()
	in.Email = "someone.else@example.com"
	if _, err := svc.Provision(ctx, hr, in); !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
		t.Fatalf("duplicate code: got %v", err)
	}
	// the user row of the failed attempt must be gone: the same email works now
	in.EmployeeCode = "E002"
	if _, err := svc.Provision(ctx, hr, in); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}

	in = validProvision()
	in.EmployeeCode = "E003"
	if _, err := svc.Provision(ctx, hr, in); !apperrors.HasCode(err, apperrors.ErrCodeConflict) {
		t.Fatalf("duplicate email: got %v", err)
	}
	all, _ := store.ListEmployees(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(all))
	}
}

func TestProvisionValidation(t *testing.T) {
	svc := newEmployeeService(newTestStore(t), nil)
	tests := []struct {
		name   string
		mutate func(in *ProvisionEmployeeInput)
		code   apperrors.ErrorCode
	}{
		{"missing email", func(in *ProvisionEmployeeInput) { in.Email = "" }, apperrors.ErrCodeRequiredField},
		{"bad email", func(in *ProvisionEmployeeInput) { in.Email = "not-an-email" }, apperrors.ErrCodeInvalidFormat},
		{"short password", func(in *ProvisionEmployeeInput) { in.Password = "abc" }, apperrors.ErrCodeValidation},
		{"unknown role", func(in *ProvisionEmployeeInput) { in.Role = "owner" }, apperrors.ErrCodeValidation},
		{"unknown salary type", func(in *ProvisionEmployeeInput) { in.SalaryType = "weekly" }, apperrors.ErrCodeValidation},
		{"hourly without rate", func(in *ProvisionEmployeeInput) { in.SalaryType = "hourly" }, apperrors.ErrCodeValidation},
		{"negative salary", func(in *ProvisionEmployeeInput) { in.Salary = dec("-1") }, apperrors.ErrCodeValidation},
		{"bad weekday", func(in *ProvisionEmployeeInput) { in.WorkingDays = []int64{1, 7} }, apperrors.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProvision()
			tt.mutate(&in)
			if _, err := svc.Provision(context.Background(), hr, in); !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
	if _, err := svc.Provision(context.Background(), employee, validProvision()); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee provisioning: got %v", err)
	}
}

func TestEmployeeAccessAndStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	cache := newMemCache()
	svc := newEmployeeService(store, cache)
	e, err := svc.Provision(ctx, admin, validProvision())
	if err != nil {
		t.Fatal(err)
	}
	self := employee
	self.UserID = e.UserID

	if got, err := svc.Get(ctx, self, 0); err != nil || got.EmployeeCode != "E001" {
		t.Fatalf("own profile: %+v %v", got, err)
	}
	if _, err := svc.Get(ctx, employee, e.UserID); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("foreign profile: got %v", err)
	}
	if _, err := svc.Get(ctx, hr, 999); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("missing profile: got %v", err)
	}

	stats, err := svc.Stats(ctx, hr)
	if err != nil || stats.Total != 1 || stats.Active != 1 {
		t.Fatalf("stats = %+v, %v", stats, err)
	}

	if _, err := svc.UpdateStatus(ctx, hr, e.UserID, "Offboarding"); err != nil {
		t.Fatal(err)
	}
	stats, err = svc.Stats(ctx, hr)
	if err != nil || stats.Active != 0 || stats.Offboarding != 1 {
		t.Fatalf("stats after status change = %+v, %v", stats, err)
	}
	active, err := svc.List(ctx, hr, "active")
	if err != nil || len(active) != 0 {
		t.Fatalf("active list = %+v, %v", active, err)
	}
	if _, err := svc.UpdateStatus(ctx, hr, e.UserID, "fired"); !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Fatalf("unknown status: got %v", err)
	}

	updated, err := svc.SetProfileImage(ctx, self, 0, "https://cdn.example.com/a.png")
	if err != nil || updated.ProfileImage != "https://cdn.example.com/a.png" {
		t.Fatalf("profile image: %+v %v", updated, err)
	}
}
