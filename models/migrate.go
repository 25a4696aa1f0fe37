package models

import "gorm.io/gorm"

// AutoMigrate tạo/cập nhật các bảng của hệ thống
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Employee{},
		&LeaveBalance{},
		&Leave{},
		&Attendance{},
		&Salary{},
		&Holiday{},
	)
}
