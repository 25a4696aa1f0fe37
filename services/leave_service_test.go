package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/notification"
	"github.com/mihirmehra/employee-management-system/types"

	gormlogger "gorm.io/gorm/logger"
)

var (
	hr       = types.Caller{UserID: 100, Role: constants.RoleHR}
	admin    = types.Caller{UserID: 101, Role: constants.RoleAdmin}
	employee = types.Caller{UserID: 1, Role: constants.RoleEmployee}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newTestStore mở GormStore trên SQLite in-memory đã migrate
func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:", gormlogger.Silent)
	if err != nil {
		t.Fatal(err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	return repository.NewGormStore(db)
}

type leaveFixture struct {
	store    *repository.GormStore
	notifier *notification.Recorder
	svc      *LeaveService
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	store := newTestStore(t)
	rec := &notification.Recorder{}
	svc := NewLeaveService(LeaveServiceOptions{
		Store:    store,
		Notifier: rec,
		Clock:    fixedClock(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	})
	return &leaveFixture{store: store, notifier: rec, svc: svc}
}

func (f *leaveFixture) balance(t *testing.T, userID uint, mutate func(b *models.LeaveBalance)) {
	t.Helper()
	b := models.NewDefaultLeaveBalance(userID, 2024)
	if mutate != nil {
		mutate(b)
	}
	if err := f.store.CreateLeaveBalance(context.Background(), b); err != nil {
		t.Fatal(err)
	}
}

func (f *leaveFixture) submit(t *testing.T, category string, start, end time.Time) *models.Leave {
	t.Helper()
	leave, err := f.svc.Submit(context.Background(), employee, SubmitLeaveInput{
		LeaveType: category,
		StartDate: start,
		EndDate:   end,
		Reason:    "family",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return leave
}

func TestSubmitCreatesPendingLeaveWithoutDebit(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)

	leave := f.submit(t, "casual", d(2024, 1, 10), d(2024, 1, 12))

	if leave.Status != constants.LeaveStatusPending || leave.Days != 3 || leave.BalanceYear != 2024 {
		t.Fatalf("unexpected leave %+v", leave)
	}
	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.CasualUsed != 0 {
		t.Fatalf("submit must not debit; casual used = %d", b.CasualUsed)
	}
}

func TestSubmitInsufficientBalanceWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, func(b *models.LeaveBalance) {
		b.CasualAllocated = 12
		b.CasualUsed = 11
	})

	// GIVEN one casual day left, WHEN asking for three
	_, err := f.svc.Submit(ctx, employee, SubmitLeaveInput{
		LeaveType: "casual", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 12), Reason: "trip",
	})

	// THEN the request fails with the exact availability and nothing is stored
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeInsufficientBalance {
		t.Fatalf("expected INSUFFICIENT_BALANCE, got %v", err)
	}
	if appErr.Message != "Insufficient casual leave balance. Available: 1 days" {
		t.Fatalf("message = %q", appErr.Message)
	}
	leaves, _ := f.store.ListLeaves(ctx, repository.LeaveFilter{})
	if len(leaves) != 0 {
		t.Fatalf("expected no leave rows, got %d", len(leaves))
	}
}

func TestSubmitWithoutBalance(t *testing.T) {
	f := newLeaveFixture(t)
	_, err := f.svc.Submit(context.Background(), employee, SubmitLeaveInput{
		LeaveType: "sick", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 10), Reason: "flu",
	})
	if !apperrors.HasCode(err, apperrors.ErrCodeBalanceNotFound) {
		t.Fatalf("expected BALANCE_NOT_FOUND, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)

	tests := []struct {
		name string
		in   SubmitLeaveInput
	}{
		{"reversed dates", SubmitLeaveInput{LeaveType: "sick", StartDate: d(2024, 1, 12), EndDate: d(2024, 1, 10), Reason: "x"}},
		{"missing reason", SubmitLeaveInput{LeaveType: "sick", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 10)}},
		{"unknown category", SubmitLeaveInput{LeaveType: "holiday", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 10), Reason: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), employee, tt.in)
			if !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestSubmitRejectsOverlap(t *testing.T) {
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	f.submit(t, "casual", d(2024, 1, 10), d(2024, 1, 12))

	_, err := f.svc.Submit(context.Background(), employee, SubmitLeaveInput{
		LeaveType: "sick", StartDate: d(2024, 1, 12), EndDate: d(2024, 1, 13), Reason: "flu",
	})
	if !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Fatalf("expected overlap validation error, got %v", err)
	}
}

func TestSubmitForAnotherEmployeeNeedsCapability(t *testing.T) {
	f := newLeaveFixture(t)
	f.balance(t, 2, nil)
	in := SubmitLeaveInput{UserID: 2, LeaveType: "sick", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 10), Reason: "flu"}

	if _, err := f.svc.Submit(context.Background(), employee, in); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee filing for someone else: got %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), hr, in); err != nil {
		t.Fatalf("hr filing for employee: %v", err)
	}
}

func TestUnpaidLeaveIgnoresAvailability(t *testing.T) {
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "unpaid", d(2024, 1, 1), d(2024, 3, 31))
	if leave.Days != 91 {
		t.Fatalf("days = %d, want 91", leave.Days)
	}
}

func TestApproveDebitsAndMarksEveryDayOnLeave(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "casual", d(2024, 1, 10), d(2024, 1, 12))

	// an existing check-in on the middle day gets overridden
	checkIn := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	if err := f.store.CreateAttendance(ctx, &models.Attendance{UserID: 1, Date: d(2024, 1, 11), Status: constants.AttendancePresent, CheckInTime: &checkIn}); err != nil {
		t.Fatal(err)
	}

	approved, err := f.svc.Approve(ctx, hr, leave.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != constants.LeaveStatusApproved || approved.ApprovedBy == nil || *approved.ApprovedBy != hr.UserID {
		t.Fatalf("unexpected approved leave %+v", approved)
	}

	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.CasualUsed != 3 {
		t.Fatalf("casual used = %d, want 3", b.CasualUsed)
	}
	for _, day := range EachDay(d(2024, 1, 10), d(2024, 1, 12)) {
		a, err := f.store.GetAttendance(ctx, 1, day)
		if err != nil {
			t.Fatalf("no attendance for %s: %v", day.Format(DateLayout), err)
		}
		if a.Status != constants.AttendanceOnLeave || a.Notes != "casual leave" {
			t.Fatalf("%s: status=%s notes=%q", day.Format(DateLayout), a.Status, a.Notes)
		}
	}
	if len(f.notifier.Messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.Messages))
	}
}

func TestApproveTwiceAppliesOneDebit(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "sick", d(2024, 1, 10), d(2024, 1, 11))

	if _, err := f.svc.Approve(ctx, hr, leave.ID); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Approve(ctx, admin, leave.ID)
	if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyProcessed) {
		t.Fatalf("second approve: got %v", err)
	}
	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.SickUsed != 2 {
		t.Fatalf("sick used = %d, want 2", b.SickUsed)
	}
}

func TestConcurrentApprovalsSucceedOnce(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "earned", d(2024, 1, 10), d(2024, 1, 14))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Approve(ctx, hr, leave.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyProcessed) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful approvals = %d, want 1", ok)
	}
	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.EarnedUsed != 5 {
		t.Fatalf("earned used = %d, want 5", b.EarnedUsed)
	}
}

func TestApproveRechecksBalanceAndRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, func(b *models.LeaveBalance) { b.PaternityAllocated = 3 })

	// two pending requests that only fit one at a time
	first := f.submit(t, "paternity", d(2024, 2, 1), d(2024, 2, 2))
	second := f.submit(t, "paternity", d(2024, 3, 1), d(2024, 3, 2))

	if _, err := f.svc.Approve(ctx, hr, first.ID); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Approve(ctx, hr, second.ID)
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeInsufficientBalance || appErr.Details["available"] != 1 {
		t.Fatalf("expected INSUFFICIENT_BALANCE with 1 available, got %v", err)
	}

	// the failed approval left no trace
	l, _ := f.store.GetLeave(ctx, second.ID)
	if l.Status != constants.LeaveStatusPending {
		t.Fatalf("second leave status = %s, want pending", l.Status)
	}
	if _, err := f.store.GetAttendance(ctx, 1, d(2024, 3, 1)); err == nil {
		t.Fatal("attendance written by rolled back approval")
	}
	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.PaternityUsed != 2 {
		t.Fatalf("paternity used = %d, want 2", b.PaternityUsed)
	}
}

func TestApproveRequiresCapabilityAndExistingLeave(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "sick", d(2024, 1, 10), d(2024, 1, 10))

	if _, err := f.svc.Approve(ctx, employee, leave.ID); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee approve: got %v", err)
	}
	if _, err := f.svc.Approve(ctx, hr, 9999); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("missing leave: got %v", err)
	}
}

func TestRejectHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	leave := f.submit(t, "casual", d(2024, 1, 10), d(2024, 1, 12))

	rejected, err := f.svc.Reject(ctx, hr, leave.ID, "busy week")
	if err != nil {
		t.Fatal(err)
	}
	if rejected.Status != constants.LeaveStatusRejected || rejected.RejectionReason != "busy week" {
		t.Fatalf("unexpected rejected leave %+v", rejected)
	}
	b, _ := f.store.GetLeaveBalance(ctx, 1, 2024)
	if b.CasualUsed != 0 {
		t.Fatal("reject must not touch the balance")
	}
	if rows, _ := f.store.ListAttendance(ctx, repository.AttendanceFilter{UserID: 1}); len(rows) != 0 {
		t.Fatal("reject must not touch attendance")
	}
	if _, err := f.svc.Approve(ctx, hr, leave.ID); !apperrors.HasCode(err, apperrors.ErrCodeAlreadyProcessed) {
		t.Fatalf("approve after reject: got %v", err)
	}
}

func TestListScopesEmployees(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, nil)
	f.balance(t, 2, nil)
	f.submit(t, "sick", d(2024, 1, 10), d(2024, 1, 10))
	if _, err := f.svc.Submit(ctx, hr, SubmitLeaveInput{UserID: 2, LeaveType: "sick", StartDate: d(2024, 1, 10), EndDate: d(2024, 1, 10), Reason: "x"}); err != nil {
		t.Fatal(err)
	}

	mine, _ := f.svc.List(ctx, employee, 2, "")
	if len(mine) != 1 || mine[0].UserID != 1 {
		t.Fatalf("employee sees %+v", mine)
	}
	all, _ := f.svc.List(ctx, hr, 0, constants.LeaveStatusPending)
	if len(all) != 2 {
		t.Fatalf("hr sees %d leaves, want 2", len(all))
	}
}

func TestSetAllocationGuardsUsedDays(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	f.balance(t, 1, func(b *models.LeaveBalance) { b.SickUsed = 4 })

	if _, err := f.svc.SetAllocation(ctx, hr, 1, 2024, "sick", 3); !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Fatalf("below used: got %v", err)
	}
	b, err := f.svc.SetAllocation(ctx, hr, 1, 2024, "sick", 20)
	if err != nil {
		t.Fatal(err)
	}
	if b.Available(constants.LeaveSick) != 16 {
		t.Fatalf("available = %d, want 16", b.Available(constants.LeaveSick))
	}
	if _, err := f.svc.SetAllocation(ctx, employee, 1, 2024, "sick", 30); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee override: got %v", err)
	}
}

func TestProvisionYearSkipsExisting(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture(t)
	for _, e := range []models.Employee{
		{UserID: 1, EmployeeCode: "E001", Status: constants.EmployeeStatusActive},
		{UserID: 2, EmployeeCode: "E002", Status: constants.EmployeeStatusActive},
	} {
		if err := f.store.CreateEmployee(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}
	f.balance(t, 1, nil)

	created, err := f.svc.ProvisionYear(ctx, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
}
