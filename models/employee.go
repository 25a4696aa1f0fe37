package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"uniqueIndex;not null" json:"userId"`
	EmployeeCode string          `gorm:"uniqueIndex;type:varchar(32)" json:"employeeCode"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Designation  string          `json:"designation"`
	SalaryType   string          `gorm:"type:varchar(16);default:fixed" json:"salaryType"`
	Salary       decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"salary"`
	HourlyRate   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"hourlyRate"`
	// Weekdays counted as working days, 0 = Sunday.
	WorkingDays  pq.Int64Array `gorm:"type:integer[]" json:"workingDays"`
	Status       string        `gorm:"type:varchar(16);default:active" json:"status"`
	ProfileImage string        `json:"profileImage,omitempty"`
	JoiningDate  time.Time     `json:"joiningDate"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// WorksOn reports whether weekday is one of the employee's working days.
// An empty schedule means Monday to Friday.
func (e *Employee) WorksOn(weekday time.Weekday) bool {
	if len(e.WorkingDays) == 0 {
		return weekday != time.Saturday && weekday != time.Sunday
	}
	for _, d := range e.WorkingDays {
		if time.Weekday(d) == weekday {
			return true
		}
	}
	return false
}
