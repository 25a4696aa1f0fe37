package models

import (
	"errors"

	"github.com/mihirmehra/employee-management-system/constants"
)

var ErrLeaveAlreadyProcessed = errors.New("leave request already processed")

// LeaveState định nghĩa interface cho các trạng thái đơn nghỉ phép
type LeaveState interface {
	Approve(leave *Leave) error
	Reject(leave *Leave) error
}

// PendingLeaveState trạng thái chờ duyệt
type PendingLeaveState struct{}

func (s *PendingLeaveState) Approve(leave *Leave) error {
	leave.Status = constants.LeaveStatusApproved
	return nil
}

func (s *PendingLeaveState) Reject(leave *Leave) error {
	leave.Status = constants.LeaveStatusRejected
	return nil
}

// DecidedLeaveState covers approved and rejected, both terminal.
type DecidedLeaveState struct{}

func (s *DecidedLeaveState) Approve(leave *Leave) error {
	return ErrLeaveAlreadyProcessed
}

func (s *DecidedLeaveState) Reject(leave *Leave) error {
	return ErrLeaveAlreadyProcessed
}

// GetLeaveState trả về state tương ứng với trạng thái đơn
func GetLeaveState(status string) LeaveState {
	if status == constants.LeaveStatusPending {
		return &PendingLeaveState{}
	}
	return &DecidedLeaveState{}
}
