package models

import (
	"time"
)

// User là tài khoản đăng nhập của nhân viên
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name      string    `gorm:"default:New User" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `json:"-"`
	Role      string    `gorm:"type:varchar(16);default:employee" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
}
