package models

import (
	"time"
)

// Holiday là kỳ nghỉ chung của công ty, FromDate..ToDate tính cả hai đầu
type Holiday struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	FromDate  time.Time `json:"fromDate" gorm:"type:date;not null"`
	ToDate    time.Time `json:"toDate" gorm:"type:date;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Covers reports whether the calendar date of day falls inside the holiday.
// Dates are compared as YYYY-MM-DD so the stored location does not matter.
func (h *Holiday) Covers(day time.Time) bool {
	d := day.Format("2006-01-02")
	return d >= h.FromDate.Format("2006-01-02") && d <= h.ToDate.Format("2006-01-02")
}
