package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance là bản ghi chấm công của một nhân viên trong một ngày
type Attendance struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uint      `gorm:"uniqueIndex:idx_attendance_user_date;not null" json:"userId"`
	Date   time.Time `gorm:"uniqueIndex:idx_attendance_user_date;type:date;not null" json:"date"`

	CheckInTime    *time.Time `json:"checkInTime,omitempty"`
	CheckInLat     *float64   `json:"checkInLat,omitempty"`
	CheckInLng     *float64   `json:"checkInLng,omitempty"`
	CheckInAddress string     `json:"checkInAddress,omitempty"`
	CheckInPhoto   string     `json:"checkInPhoto,omitempty"`

	CheckOutTime    *time.Time `json:"checkOutTime,omitempty"`
	CheckOutLat     *float64   `json:"checkOutLat,omitempty"`
	CheckOutLng     *float64   `json:"checkOutLng,omitempty"`
	CheckOutAddress string     `json:"checkOutAddress,omitempty"`
	CheckOutPhoto   string     `json:"checkOutPhoto,omitempty"`

	TotalHours decimal.Decimal `gorm:"type:numeric(6,2);default:0" json:"totalHours"`
	Status     string          `gorm:"type:varchar(16);not null" json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (a *Attendance) HasCheckedIn() bool  { return a.CheckInTime != nil }
func (a *Attendance) HasCheckedOut() bool { return a.CheckOutTime != nil }
