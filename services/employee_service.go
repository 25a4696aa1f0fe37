package services

import (
	"context"
	stderrors "errors"
	"net/mail"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// EmployeeServiceOptions gom các phụ thuộc của EmployeeService
type EmployeeServiceOptions struct {
	Store    repository.Store
	Cache    Cache
	Logger   logger.Logger
	Clock    func() time.Time
	Location *time.Location
	// HashCost mặc định là bcrypt.DefaultCost
	HashCost int
}

// EmployeeService tạo và quản lý hồ sơ nhân viên
type EmployeeService struct {
	store    repository.Store
	cache    Cache
	logger   logger.Logger
	now      func() time.Time
	loc      *time.Location
	hashCost int
}

func NewEmployeeService(opts EmployeeServiceOptions) *EmployeeService {
	s := &EmployeeService{
		store:    opts.Store,
		cache:    opts.Cache,
		logger:   opts.Logger,
		now:      opts.Clock,
		loc:      opts.Location,
		hashCost: opts.HashCost,
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	return s
}

// ProvisionEmployeeInput là dữ liệu tạo tài khoản + hồ sơ nhân viên
type ProvisionEmployeeInput struct {
	Email        string
	Password     string
	Role         string
	EmployeeCode string
	FirstName    string
	LastName     string
	Designation  string
	SalaryType   string
	Salary       decimal.Decimal
	HourlyRate   decimal.Decimal
	WorkingDays  []int64
	JoiningDate  time.Time
}

func (in *ProvisionEmployeeInput) normalize() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Designation = strings.TrimSpace(in.Designation)

	if in.Email == "" || in.Password == "" || in.EmployeeCode == "" || in.FirstName == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Email, password, employee code and first name are required", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Invalid email address", err)
	}
	if len(in.Password) < minPasswordLength {
		return apperrors.Validation("Password must be at least 6 characters")
	}

	role := constants.RoleEmployee
	if in.Role != "" {
		parsed, err := RoleMatcher.Parse(in.Role)
		if err != nil {
			return err
		}
		role = parsed
	}
	in.Role = role

	salaryType := constants.SalaryTypeFixed
	if in.SalaryType != "" {
		parsed, err := SalaryTypeMatcher.Parse(in.SalaryType)
		if err != nil {
			return err
		}
		salaryType = parsed
	}
	in.SalaryType = salaryType

	if in.Salary.IsNegative() || in.HourlyRate.IsNegative() {
		return apperrors.Validation("Salary must not be negative")
	}
	if in.SalaryType == constants.SalaryTypeHourly && !in.HourlyRate.IsPositive() {
		return apperrors.Validation("Hourly employees need an hourly rate")
	}
	for _, d := range in.WorkingDays {
		if d < 0 || d > 6 {
			return apperrors.Validation("Working days must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	return nil
}

// Provision tạo user (mật khẩu bcrypt), hồ sơ nhân viên và số dư phép năm
// hiện tại trong cùng một transaction.
func (s *EmployeeService) Provision(ctx context.Context, caller types.Caller, in ProvisionEmployeeInput) (*models.Employee, error) {
	if err := authorize(caller, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "Password cannot be hashed", err)
	}
	joining := in.JoiningDate
	if joining.IsZero() {
		joining = s.now()
	}
	year := s.now().In(s.loc).Year()

	var created *models.Employee
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		user := &models.User{
			Name:     strings.TrimSpace(in.FirstName + " " + in.LastName),
			Email:    in.Email,
			Password: string(hashed),
			Role:     in.Role,
			IsActive: true,
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			if stderrors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("Email already exists", err)
			}
			return storeError(err, "")
		}

		employee := &models.Employee{
			UserID:       user.ID,
			EmployeeCode: in.EmployeeCode,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Designation:  in.Designation,
			SalaryType:   in.SalaryType,
			Salary:       in.Salary.Round(2),
			HourlyRate:   in.HourlyRate.Round(2),
			WorkingDays:  pq.Int64Array(in.WorkingDays),
			Status:       constants.EmployeeStatusActive,
			JoiningDate:  Midnight(joining, s.loc),
		}
		if err := tx.CreateEmployee(ctx, employee); err != nil {
			if stderrors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("Employee code already exists", err)
			}
			return storeError(err, "")
		}

		if err := tx.CreateLeaveBalance(ctx, models.NewDefaultLeaveBalance(user.ID, year)); err != nil {
			return storeError(err, "")
		}

		user.Password = ""
		employee.User = user
		created = employee
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) || apperrors.HasCode(err, apperrors.ErrCodeDBError) {
			logger.LogError(s.logger, "employee", "Provision", "provision transaction", in.Email, err)
		}
		return nil, err
	}
	s.invalidateStats(ctx)
	s.logger.Info("employee %s provisioned as user %d by user %d", created.EmployeeCode, created.UserID, caller.UserID)
	return created, nil
}

// Get trả về hồ sơ nhân viên; nhân viên chỉ xem được hồ sơ của mình
func (s *EmployeeService) Get(ctx context.Context, caller types.Caller, userID uint) (*models.Employee, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if err := authorizeSelfOr(caller, userID, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	employee, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Employee not found")
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context, caller types.Caller, status string) ([]models.Employee, error) {
	if err := authorize(caller, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	if status != "" {
		parsed, err := EmployeeStatusMatcher.Parse(status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	employees, err := s.store.ListEmployees(ctx, status)
	if err != nil {
		return nil, storeError(err, "")
	}
	return employees, nil
}

// UpdateStatus đổi trạng thái làm việc; nhân viên inactive không còn được tính lương tự động
func (s *EmployeeService) UpdateStatus(ctx context.Context, caller types.Caller, userID uint, status string) (*models.Employee, error) {
	if err := authorize(caller, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	parsed, err := EmployeeStatusMatcher.Parse(status)
	if err != nil {
		return nil, err
	}
	employee, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Employee not found")
	}
	employee.Status = parsed
	if err := s.store.SaveEmployee(ctx, employee); err != nil {
		return nil, storeError(err, "Employee not found")
	}
	s.invalidateStats(ctx)
	s.logger.Info("employee %d status set to %s by user %d", userID, parsed, caller.UserID)
	return employee, nil
}

// SetProfileImage lưu URL ảnh đại diện đã upload
func (s *EmployeeService) SetProfileImage(ctx context.Context, caller types.Caller, userID uint, url string) (*models.Employee, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if err := authorizeSelfOr(caller, userID, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Image URL is required", nil)
	}
	employee, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Employee not found")
	}
	employee.ProfileImage = url
	if err := s.store.SaveEmployee(ctx, employee); err != nil {
		return nil, storeError(err, "Employee not found")
	}
	return employee, nil
}

// EmployeeStats đếm nhân viên theo trạng thái
type EmployeeStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	Onboarding  int `json:"onboarding"`
	Offboarding int `json:"offboarding"`
}

const (
	employeeStatsCacheKey = "employee_stats"
	employeeStatsCacheTTL = time.Minute
)

func (s *EmployeeService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, employeeStatsCacheKey); err != nil {
		s.logger.Error("invalidate employee stats cache: %v", err)
	}
}

func (s *EmployeeService) Stats(ctx context.Context, caller types.Caller) (*EmployeeStats, error) {
	if err := authorize(caller, types.CapEmployeeManage); err != nil {
		return nil, err
	}
	var cached EmployeeStats
	if hit, err := s.cache.Get(ctx, employeeStatsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	employees, err := s.store.ListEmployees(ctx, "")
	if err != nil {
		return nil, storeError(err, "")
	}
	stats := &EmployeeStats{Total: len(employees)}
	for _, e := range employees {
		switch e.Status {
		case constants.EmployeeStatusActive:
			stats.Active++
		case constants.EmployeeStatusInactive:
			stats.Inactive++
		case constants.EmployeeStatusOnboarding:
			stats.Onboarding++
		case constants.EmployeeStatusOffboarding:
			stats.Offboarding++
		}
	}
	if err := s.cache.Set(ctx, employeeStatsCacheKey, stats, employeeStatsCacheTTL); err != nil {
		s.logger.Debug("employee stats cache write failed: %v", err)
	}
	return stats, nil
}
