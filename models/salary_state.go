package models

import (
	"errors"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
)

var (
	ErrSalaryAlreadyPaid       = errors.New("salary already paid for this month")
	ErrSalaryInvalidTransition = errors.New("invalid salary status transition")
)

// SalaryState định nghĩa interface cho các trạng thái bảng lương
type SalaryState interface {
	Recalculate(salary *Salary) error
	Process(salary *Salary) error
	MarkPaid(salary *Salary, at time.Time) error
}

// DraftSalaryState trạng thái nháp
type DraftSalaryState struct{}

func (s *DraftSalaryState) Recalculate(salary *Salary) error {
	salary.Status = constants.SalaryStatusDraft
	return nil
}

func (s *DraftSalaryState) Process(salary *Salary) error {
	salary.Status = constants.SalaryStatusProcessed
	return nil
}

func (s *DraftSalaryState) MarkPaid(salary *Salary, at time.Time) error {
	return ErrSalaryInvalidTransition
}

// ProcessedSalaryState trạng thái đã chốt
type ProcessedSalaryState struct{}

// Recalculate drops a processed record back to draft.
func (s *ProcessedSalaryState) Recalculate(salary *Salary) error {
	salary.Status = constants.SalaryStatusDraft
	return nil
}

func (s *ProcessedSalaryState) Process(salary *Salary) error {
	return ErrSalaryInvalidTransition
}

func (s *ProcessedSalaryState) MarkPaid(salary *Salary, at time.Time) error {
	salary.Status = constants.SalaryStatusPaid
	salary.PaidAt = &at
	return nil
}

// PaidSalaryState trạng thái đã trả, không thay đổi được nữa
type PaidSalaryState struct{}

func (s *PaidSalaryState) Recalculate(salary *Salary) error {
	return ErrSalaryAlreadyPaid
}

func (s *PaidSalaryState) Process(salary *Salary) error {
	return ErrSalaryAlreadyPaid
}

func (s *PaidSalaryState) MarkPaid(salary *Salary, at time.Time) error {
	return ErrSalaryAlreadyPaid
}

// GetSalaryState trả về state tương ứng với trạng thái bảng lương
func GetSalaryState(status string) SalaryState {
	switch status {
	case constants.SalaryStatusProcessed:
		return &ProcessedSalaryState{}
	case constants.SalaryStatusPaid:
		return &PaidSalaryState{}
	default:
		return &DraftSalaryState{}
	}
}
