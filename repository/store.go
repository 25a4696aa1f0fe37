// Package repository is the persistence boundary of the service. Every
// operation takes a context and is usable inside or outside a transaction.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mihirmehra/employee-management-system/models"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrStatusConflict  = errors.New("status changed concurrently")
	ErrBalanceExceeded = errors.New("leave balance exceeded")
	ErrDuplicate       = errors.New("duplicate record")
	ErrUnknownCategory = errors.New("unknown leave category")
)

// LeaveFilter selects leaves for listing. Zero values mean "any".
type LeaveFilter struct {
	UserID uint
	Status string
	Limit  int
}

// AttendanceFilter selects attendance rows. From and To are inclusive dates.
type AttendanceFilter struct {
	UserID uint
	From   time.Time
	To     time.Time
	Status string
	Limit  int
}

// SalaryFilter selects salary rows. Month < 0 means every month.
type SalaryFilter struct {
	UserID uint
	Month  int
	Year   int
	Limit  int
}

// LeaveDecision is what a pending leave is moved to on approval or rejection.
type LeaveDecision struct {
	Status          string
	DecidedBy       uint
	DecidedAt       time.Time
	RejectionReason string
}

// Store là interface truy cập dữ liệu dùng chung cho các service
type Store interface {
	// Transaction runs fn against a transactional view of the store. Any
	// error returned by fn rolls back every write made through that view.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	SaveEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployeeByUserID(ctx context.Context, userID uint) (*models.Employee, error)
	ListEmployees(ctx context.Context, status string) ([]models.Employee, error)

	GetLeaveBalance(ctx context.Context, userID uint, year int) (*models.LeaveBalance, error)
	CreateLeaveBalance(ctx context.Context, balance *models.LeaveBalance) error
	SetLeaveAllocation(ctx context.Context, userID uint, year int, category string, days int) error
	// IncrementLeaveUsed adds days to the used counter only while
	// used + days stays within the allocation; otherwise ErrBalanceExceeded.
	IncrementLeaveUsed(ctx context.Context, userID uint, year int, category string, days int) error

	CreateLeave(ctx context.Context, leave *models.Leave) error
	GetLeave(ctx context.Context, id uint) (*models.Leave, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) ([]models.Leave, error)
	// CountOverlappingLeaves counts pending or approved leaves of the user
	// intersecting [start, end].
	CountOverlappingLeaves(ctx context.Context, userID uint, start, end time.Time) (int64, error)
	// TransitionLeave applies decision only if the leave is still in status
	// from. A leave that moved on yields ErrStatusConflict.
	TransitionLeave(ctx context.Context, id uint, from string, decision LeaveDecision) error
	ListApprovedLeaves(ctx context.Context, userID uint, category string, from, to time.Time) ([]models.Leave, error)

	GetAttendance(ctx context.Context, userID uint, day time.Time) (*models.Attendance, error)
	GetAttendanceByID(ctx context.Context, id uint) (*models.Attendance, error)
	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	SaveAttendance(ctx context.Context, attendance *models.Attendance) error
	// UpsertLeaveAttendance marks the (user, day) row on-leave, inserting it
	// when missing.
	UpsertLeaveAttendance(ctx context.Context, userID uint, day time.Time, notes string) error
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)

	GetSalary(ctx context.Context, userID uint, month, year int) (*models.Salary, error)
	GetSalaryByID(ctx context.Context, id uint) (*models.Salary, error)
	// LockSalary reads the salary row for update. Callers must be inside
	// Transaction for the lock to mean anything.
	LockSalary(ctx context.Context, userID uint, month, year int) (*models.Salary, error)
	SaveSalary(ctx context.Context, salary *models.Salary) error
	TransitionSalary(ctx context.Context, id uint, from, to string, paidAt *time.Time) error
	ListSalaries(ctx context.Context, filter SalaryFilter) ([]models.Salary, error)

	CreateHoliday(ctx context.Context, holiday *models.Holiday) error
	GetHoliday(ctx context.Context, id uint) (*models.Holiday, error)
	SaveHoliday(ctx context.Context, holiday *models.Holiday) error
	// ListHolidays returns holidays intersecting [from, to]; zero bounds are open.
	ListHolidays(ctx context.Context, from, to time.Time) ([]models.Holiday, error)
	DeleteHolidays(ctx context.Context, ids []uint) error
}
