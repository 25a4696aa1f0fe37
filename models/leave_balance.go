package models

import (
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
)

// LeaveBalance giữ số ngày phép được cấp và đã dùng của một nhân viên trong một năm
type LeaveBalance struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_leave_balance_user_year;not null" json:"userId"`
	Year   int  `gorm:"uniqueIndex:idx_leave_balance_user_year;not null" json:"year"`

	SickAllocated      int `gorm:"not null;default:0" json:"sickAllocated"`
	SickUsed           int `gorm:"not null;default:0" json:"sickUsed"`
	CasualAllocated    int `gorm:"not null;default:0" json:"casualAllocated"`
	CasualUsed         int `gorm:"not null;default:0" json:"casualUsed"`
	EarnedAllocated    int `gorm:"not null;default:0" json:"earnedAllocated"`
	EarnedUsed         int `gorm:"not null;default:0" json:"earnedUsed"`
	MaternityAllocated int `gorm:"not null;default:0" json:"maternityAllocated"`
	MaternityUsed      int `gorm:"not null;default:0" json:"maternityUsed"`
	PaternityAllocated int `gorm:"not null;default:0" json:"paternityAllocated"`
	PaternityUsed      int `gorm:"not null;default:0" json:"paternityUsed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// NewDefaultLeaveBalance builds the yearly balance handed out at provisioning.
func NewDefaultLeaveBalance(userID uint, year int) *LeaveBalance {
	b := &LeaveBalance{UserID: userID, Year: year}
	for category, days := range constants.DefaultLeaveAllocation {
		*b.allocatedField(category) = days
	}
	return b
}

func (b *LeaveBalance) allocatedField(category string) *int {
	switch category {
	case constants.LeaveSick:
		return &b.SickAllocated
	case constants.LeaveCasual:
		return &b.CasualAllocated
	case constants.LeaveEarned:
		return &b.EarnedAllocated
	case constants.LeaveMaternity:
		return &b.MaternityAllocated
	case constants.LeavePaternity:
		return &b.PaternityAllocated
	}
	return nil
}

func (b *LeaveBalance) usedField(category string) *int {
	switch category {
	case constants.LeaveSick:
		return &b.SickUsed
	case constants.LeaveCasual:
		return &b.CasualUsed
	case constants.LeaveEarned:
		return &b.EarnedUsed
	case constants.LeaveMaternity:
		return &b.MaternityUsed
	case constants.LeavePaternity:
		return &b.PaternityUsed
	}
	return nil
}

// Allocated returns 0 for categories without a ledger (unpaid).
func (b *LeaveBalance) Allocated(category string) int {
	if f := b.allocatedField(category); f != nil {
		return *f
	}
	return 0
}

func (b *LeaveBalance) Used(category string) int {
	if f := b.usedField(category); f != nil {
		return *f
	}
	return 0
}

func (b *LeaveBalance) Available(category string) int {
	return b.Allocated(category) - b.Used(category)
}

// SetAllocated overwrites the allocation. It reports false for unfunded categories.
func (b *LeaveBalance) SetAllocated(category string, days int) bool {
	f := b.allocatedField(category)
	if f == nil {
		return false
	}
	*f = days
	return true
}

// AddUsed moves the used counter by days. It reports false for unfunded categories.
func (b *LeaveBalance) AddUsed(category string, days int) bool {
	f := b.usedField(category)
	if f == nil {
		return false
	}
	*f += days
	return true
}

// AllocatedColumn and UsedColumn map a category onto its column name.
// Only whitelisted categories produce a column, so the result is safe to
// interpolate into SQL.
func AllocatedColumn(category string) (string, bool) {
	if !constants.IsFundedLeave(category) {
		return "", false
	}
	return category + "_allocated", true
}

func UsedColumn(category string) (string, bool) {
	if !constants.IsFundedLeave(category) {
		return "", false
	}
	return category + "_used", true
}

// CategoryBalance là số liệu của một loại phép
type CategoryBalance struct {
	Category  string `json:"category"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Available int    `json:"available"`
}

// Summary flattens the balance into one entry per funded category.
func (b *LeaveBalance) Summary() []CategoryBalance {
	out := make([]CategoryBalance, 0, len(constants.FundedLeaveCategories))
	for _, c := range constants.FundedLeaveCategories {
		out = append(out, CategoryBalance{
			Category:  c,
			Allocated: b.Allocated(c),
			Used:      b.Used(c),
			Available: b.Available(c),
		})
	}
	return out
}
