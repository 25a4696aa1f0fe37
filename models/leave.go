package models

import (
	"time"
)

type Leave struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	LeaveType string    `gorm:"type:varchar(16);not null" json:"leaveType"`
	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`
	Days      int       `gorm:"not null" json:"days"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Status    string    `gorm:"type:varchar(16);index;default:pending" json:"status"`
	// Year of the balance the request is charged against, fixed at submission.
	BalanceYear     int        `gorm:"not null" json:"balanceYear"`
	ApprovedBy      *uint      `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
