package types

import "github.com/mihirmehra/employee-management-system/constants"

// Capability là quyền thao tác nghiệp vụ được gán theo role
type Capability string

const (
	CapLeaveApprove     Capability = "leave.approve"
	CapLeaveManage      Capability = "leave.manage"
	CapPayrollRun       Capability = "payroll.run"
	CapAttendanceManage Capability = "attendance.manage"
	CapEmployeeManage   Capability = "employee.manage"
)

// RoleCapabilities maps each role onto the capabilities it holds.
var RoleCapabilities = map[string][]Capability{
	constants.RoleAdmin: {
		CapLeaveApprove,
		CapLeaveManage,
		CapPayrollRun,
		CapAttendanceManage,
		CapEmployeeManage,
	},
	constants.RoleHR: {
		CapLeaveApprove,
		CapLeaveManage,
		CapPayrollRun,
		CapAttendanceManage,
		CapEmployeeManage,
	},
	constants.RoleEmployee: {},
}

// Caller là danh tính đã xác thực của request
type Caller struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

// Can reports whether the caller's role grants capability.
func (c Caller) Can(capability Capability) bool {
	for _, granted := range RoleCapabilities[c.Role] {
		if granted == capability {
			return true
		}
	}
	return false
}

// IsPrivileged is true for roles that may act on other employees' records.
func (c Caller) IsPrivileged() bool {
	return c.Role == constants.RoleAdmin || c.Role == constants.RoleHR
}
