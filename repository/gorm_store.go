package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on PostgreSQL through GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Create(user).Error)
}

func (s *GormStore) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return translate(s.conn(ctx).Create(employee).Error)
}

func (s *GormStore) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	return translate(s.conn(ctx).Save(employee).Error)
}

func (s *GormStore) GetEmployeeByUserID(ctx context.Context, userID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.conn(ctx).Where("user_id = ?", userID).First(&employee).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (s *GormStore) ListEmployees(ctx context.Context, status string) ([]models.Employee, error) {
	var employees []models.Employee
	tx := s.conn(ctx).Model(&models.Employee{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Order("id").Find(&employees).Error; err != nil {
		return nil, translate(err)
	}
	return employees, nil
}

func (s *GormStore) GetLeaveBalance(ctx context.Context, userID uint, year int) (*models.LeaveBalance, error) {
	var balance models.LeaveBalance
	if err := s.conn(ctx).Where("user_id = ? AND year = ?", userID, year).First(&balance).Error; err != nil {
		return nil, translate(err)
	}
	return &balance, nil
}

func (s *GormStore) CreateLeaveBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return translate(s.conn(ctx).Create(balance).Error)
}

func (s *GormStore) SetLeaveAllocation(ctx context.Context, userID uint, year int, category string, days int) error {
	col, ok := models.AllocatedColumn(category)
	if !ok {
		return ErrUnknownCategory
	}
	res := s.conn(ctx).Model(&models.LeaveBalance{}).
		Where("user_id = ? AND year = ?", userID, year).
		Update(col, days)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) IncrementLeaveUsed(ctx context.Context, userID uint, year int, category string, days int) error {
	used, ok := models.UsedColumn(category)
	if !ok {
		return ErrUnknownCategory
	}
	allocated, _ := models.AllocatedColumn(category)

	// Guarded increment: the availability check and the write are one statement.
	res := s.conn(ctx).Model(&models.LeaveBalance{}).
		Where("user_id = ? AND year = ?", userID, year).
		Where(fmt.Sprintf("%s + ? <= %s", used, allocated), days).
		Update(used, gorm.Expr(used+" + ?", days))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetLeaveBalance(ctx, userID, year); err != nil {
			return err
		}
		return ErrBalanceExceeded
	}
	return nil
}

func (s *GormStore) CreateLeave(ctx context.Context, leave *models.Leave) error {
	return translate(s.conn(ctx).Create(leave).Error)
}

func (s *GormStore) GetLeave(ctx context.Context, id uint) (*models.Leave, error) {
	var leave models.Leave
	if err := s.conn(ctx).First(&leave, id).Error; err != nil {
		return nil, translate(err)
	}
	return &leave, nil
}

func (s *GormStore) ListLeaves(ctx context.Context, filter LeaveFilter) ([]models.Leave, error) {
	var leaves []models.Leave
	tx := s.conn(ctx).Model(&models.Leave{})
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if err := tx.Order("created_at desc").Find(&leaves).Error; err != nil {
		return nil, translate(err)
	}
	return leaves, nil
}

func (s *GormStore) CountOverlappingLeaves(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Leave{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{constants.LeaveStatusPending, constants.LeaveStatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) TransitionLeave(ctx context.Context, id uint, from string, decision LeaveDecision) error {
	res := s.conn(ctx).Model(&models.Leave{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           decision.Status,
			"approved_by":      decision.DecidedBy,
			"approved_at":      decision.DecidedAt,
			"rejection_reason": decision.RejectionReason,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetLeave(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (s *GormStore) ListApprovedLeaves(ctx context.Context, userID uint, category string, from, to time.Time) ([]models.Leave, error) {
	var leaves []models.Leave
	err := s.conn(ctx).
		Where("user_id = ? AND leave_type = ? AND status = ?", userID, category, constants.LeaveStatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date").
		Find(&leaves).Error
	if err != nil {
		return nil, translate(err)
	}
	return leaves, nil
}

func (s *GormStore) GetAttendance(ctx context.Context, userID uint, day time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := s.conn(ctx).Where("user_id = ? AND date = ?", userID, day).First(&attendance).Error; err != nil {
		return nil, translate(err)
	}
	return &attendance, nil
}

func (s *GormStore) GetAttendanceByID(ctx context.Context, id uint) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := s.conn(ctx).First(&attendance, id).Error; err != nil {
		return nil, translate(err)
	}
	return &attendance, nil
}

func (s *GormStore) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	return translate(s.conn(ctx).Create(attendance).Error)
}

func (s *GormStore) SaveAttendance(ctx context.Context, attendance *models.Attendance) error {
	return translate(s.conn(ctx).Save(attendance).Error)
}

func (s *GormStore) UpsertLeaveAttendance(ctx context.Context, userID uint, day time.Time, notes string) error {
	row := models.Attendance{
		UserID: userID,
		Date:   day,
		Status: constants.AttendanceOnLeave,
		Notes:  notes,
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     constants.AttendanceOnLeave,
			"notes":      notes,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
	return translate(err)
}

func (s *GormStore) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	var rows []models.Attendance
	tx := s.conn(ctx).Model(&models.Attendance{})
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if !filter.From.IsZero() {
		tx = tx.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		tx = tx.Where("date <= ?", filter.To)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if err := tx.Order("date desc").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *GormStore) GetSalary(ctx context.Context, userID uint, month, year int) (*models.Salary, error) {
	var salary models.Salary
	err := s.conn(ctx).Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&salary).Error
	if err != nil {
		return nil, translate(err)
	}
	return &salary, nil
}

func (s *GormStore) GetSalaryByID(ctx context.Context, id uint) (*models.Salary, error) {
	var salary models.Salary
	if err := s.conn(ctx).First(&salary, id).Error; err != nil {
		return nil, translate(err)
	}
	return &salary, nil
}

func (s *GormStore) LockSalary(ctx context.Context, userID uint, month, year int) (*models.Salary, error) {
	var salary models.Salary
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&salary).Error
	if err != nil {
		return nil, translate(err)
	}
	return &salary, nil
}

// SaveSalary updates by primary key, or inserts with an upsert on
// (user_id, month, year) when the row has no id yet.
func (s *GormStore) SaveSalary(ctx context.Context, salary *models.Salary) error {
	if salary.ID != 0 {
		return translate(s.conn(ctx).Save(salary).Error)
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"basic_salary", "hourly_rate", "hours_worked", "working_days",
			"gross_salary", "net_salary", "deductions", "leaves_deducted",
			"leave_deduction_amount", "status", "updated_at",
		}),
	}).Create(salary).Error
	return translate(err)
}

func (s *GormStore) TransitionSalary(ctx context.Context, id uint, from, to string, paidAt *time.Time) error {
	updates := map[string]interface{}{"status": to}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := s.conn(ctx).Model(&models.Salary{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetSalaryByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (s *GormStore) ListSalaries(ctx context.Context, filter SalaryFilter) ([]models.Salary, error) {
	var salaries []models.Salary
	tx := s.conn(ctx).Model(&models.Salary{})
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Month >= 0 {
		tx = tx.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		tx = tx.Where("year = ?", filter.Year)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if err := tx.Order("year desc, month desc, user_id").Find(&salaries).Error; err != nil {
		return nil, translate(err)
	}
	return salaries, nil
}

func (s *GormStore) CreateHoliday(ctx context.Context, holiday *models.Holiday) error {
	return translate(s.conn(ctx).Create(holiday).Error)
}

func (s *GormStore) GetHoliday(ctx context.Context, id uint) (*models.Holiday, error) {
	var holiday models.Holiday
	if err := s.conn(ctx).First(&holiday, id).Error; err != nil {
		return nil, translate(err)
	}
	return &holiday, nil
}

func (s *GormStore) SaveHoliday(ctx context.Context, holiday *models.Holiday) error {
	return translate(s.conn(ctx).Save(holiday).Error)
}

func (s *GormStore) ListHolidays(ctx context.Context, from, to time.Time) ([]models.Holiday, error) {
	var holidays []models.Holiday
	tx := s.conn(ctx).Model(&models.Holiday{})
	if !to.IsZero() {
		tx = tx.Where("from_date <= ?", to)
	}
	if !from.IsZero() {
		tx = tx.Where("to_date >= ?", from)
	}
	if err := tx.Order("from_date").Find(&holidays).Error; err != nil {
		return nil, translate(err)
	}
	return holidays, nil
}

func (s *GormStore) DeleteHolidays(ctx context.Context, ids []uint) error {
	return translate(s.conn(ctx).Delete(&models.Holiday{}, ids).Error)
}
