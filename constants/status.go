package constants

// User roles
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// Leave status
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// Leave category
const (
	LeaveSick      = "sick"
	LeaveCasual    = "casual"
	LeaveEarned    = "earned"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
	LeaveUnpaid    = "unpaid"
)

// Attendance status
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half-day"
	AttendanceLate    = "late"
	AttendanceOnLeave = "on-leave"
)

// Salary status
const (
	SalaryStatusDraft     = "draft"
	SalaryStatusProcessed = "processed"
	SalaryStatusPaid      = "paid"
)

// Salary type
const (
	SalaryTypeFixed  = "fixed"
	SalaryTypeHourly = "hourly"
)

// Employee status
const (
	EmployeeStatusActive      = "active"
	EmployeeStatusInactive    = "inactive"
	EmployeeStatusOnboarding  = "onboarding"
	EmployeeStatusOffboarding = "offboarding"
)

// Default yearly leave allocation for a newly provisioned employee.
var DefaultLeaveAllocation = map[string]int{
	LeaveSick:      12,
	LeaveCasual:    12,
	LeaveEarned:    15,
	LeaveMaternity: 180,
	LeavePaternity: 15,
}

// FundedLeaveCategories are the categories drawn from a LeaveBalance.
var FundedLeaveCategories = []string{LeaveSick, LeaveCasual, LeaveEarned, LeaveMaternity, LeavePaternity}

// LeaveCategories lists every category a request may use.
var LeaveCategories = []string{LeaveSick, LeaveCasual, LeaveEarned, LeaveMaternity, LeavePaternity, LeaveUnpaid}

func IsFundedLeave(category string) bool {
	for _, c := range FundedLeaveCategories {
		if c == category {
			return true
		}
	}
	return false
}
