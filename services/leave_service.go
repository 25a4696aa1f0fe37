package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/services/notification"
	"github.com/mihirmehra/employee-management-system/types"
)

const balanceCacheTTL = 10 * time.Minute

func balanceCacheKey(userID uint, year int) string {
	return fmt.Sprintf("leave_balance:%d:%d", userID, year)
}

// LeaveServiceOptions gom các phụ thuộc của LeaveService
type LeaveServiceOptions struct {
	Store    repository.Store
	Cache    Cache
	Notifier notification.Service
	Logger   logger.Logger
	Clock    func() time.Time
	Location *time.Location
}

// LeaveService quản lý đơn nghỉ phép và số dư phép
type LeaveService struct {
	store    repository.Store
	cache    Cache
	notifier notification.Service
	logger   logger.Logger
	now      func() time.Time
	loc      *time.Location
}

func NewLeaveService(opts LeaveServiceOptions) *LeaveService {
	s := &LeaveService{
		store:    opts.Store,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Clock,
		loc:      opts.Location,
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
	return s
}

// SubmitLeaveInput là dữ liệu của một đơn xin nghỉ. UserID = 0 nghĩa là chính người gửi.
type SubmitLeaveInput struct {
	UserID    uint
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// localDay re-anchors the calendar date of t at midnight in the service location.
func (s *LeaveService) localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// Submit tạo đơn nghỉ ở trạng thái pending. Số dư chỉ được kiểm tra, không bị trừ.
func (s *LeaveService) Submit(ctx context.Context, caller types.Caller, in SubmitLeaveInput) (*models.Leave, error) {
	target := in.UserID
	if target == 0 {
		target = caller.UserID
	}
	if err := authorizeSelfOr(caller, target, types.CapLeaveManage); err != nil {
		return nil, err
	}

	category, err := LeaveCategoryMatcher.Parse(in.LeaveType)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperrors.Validation("All fields are required")
	}
	start, end := s.localDay(in.StartDate), s.localDay(in.EndDate)
	if end.Before(start) {
		return nil, apperrors.Validation("End date must not be before start date")
	}
	days := DayCount(start, end)
	year := s.now().In(s.loc).Year()

	balance, err := s.store.GetLeaveBalance(ctx, target, year)
	if stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, apperrors.BalanceNotFound("Leave balance not found").WithDetail("year", year)
	}
	if err != nil {
		return nil, storeError(err, "")
	}
	if constants.IsFundedLeave(category) {
		if available := balance.Available(category); available < days {
			return nil, apperrors.InsufficientBalance(category, available)
		}
	}

	overlapping, err := s.store.CountOverlappingLeaves(ctx, target, start, end)
	if err != nil {
		return nil, storeError(err, "")
	}
	if overlapping > 0 {
		return nil, apperrors.Validation("Leave request overlaps an existing pending or approved leave")
	}

	leave := &models.Leave{
		UserID:      target,
		LeaveType:   category,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      reason,
		Status:      constants.LeaveStatusPending,
		BalanceYear: year,
	}
	if err := s.store.CreateLeave(ctx, leave); err != nil {
		logger.LogError(s.logger, "leave", "Submit", "create leave", leave, err)
		return nil, storeError(err, "")
	}
	s.logger.Info("leave %d submitted by user %d for user %d (%s, %d days)", leave.ID, caller.UserID, target, category, days)
	return leave, nil
}

// Approve duyệt đơn: trừ số dư, đánh dấu chấm công on-leave và đổi trạng thái
// trong cùng một transaction.
func (s *LeaveService) Approve(ctx context.Context, caller types.Caller, leaveID uint) (*models.Leave, error) {
	if err := authorize(caller, types.CapLeaveApprove); err != nil {
		return nil, err
	}

	var approved *models.Leave
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		leave, err := tx.GetLeave(ctx, leaveID)
		if err != nil {
			return storeError(err, "Leave request not found")
		}
		if err := models.GetLeaveState(leave.Status).Approve(leave); err != nil {
			return apperrors.AlreadyProcessed("Leave request already processed")
		}

		decidedAt := s.now()
		err = tx.TransitionLeave(ctx, leave.ID, constants.LeaveStatusPending, repository.LeaveDecision{
			Status:    constants.LeaveStatusApproved,
			DecidedBy: caller.UserID,
			DecidedAt: decidedAt,
		})
		if stderrors.Is(err, repository.ErrStatusConflict) {
			return apperrors.AlreadyProcessed("Leave request already processed")
		}
		if err != nil {
			return storeError(err, "Leave request not found")
		}

		if constants.IsFundedLeave(leave.LeaveType) {
			if err := s.debitBalance(ctx, tx, leave); err != nil {
				return err
			}
		}

		notes := leave.LeaveType + " leave"
		for _, day := range EachDay(s.localDay(leave.StartDate), s.localDay(leave.EndDate)) {
			if err := tx.UpsertLeaveAttendance(ctx, leave.UserID, day, notes); err != nil {
				return storeError(err, "")
			}
		}

		approvedBy := caller.UserID
		leave.ApprovedBy = &approvedBy
		leave.ApprovedAt = &decidedAt
		approved = leave
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) || apperrors.HasCode(err, apperrors.ErrCodeDBError) {
			logger.LogError(s.logger, "leave", "Approve", "approval transaction", leaveID, err)
		}
		return nil, err
	}

	s.invalidateBalance(ctx, approved.UserID, approved.BalanceYear)
	s.notify(notification.NewMessageBuilder(notification.EventLeaveApproved, approved.UserID).
		WithMessage("Your %s leave (%s to %s) was approved", approved.LeaveType,
			approved.StartDate.Format(DateLayout), approved.EndDate.Format(DateLayout)).
		WithData(approved).
		Build())
	s.logger.Info("leave %d approved by user %d", approved.ID, caller.UserID)
	return approved, nil
}

// debitBalance increments the used counter of the balance the leave was
// submitted against, re-checking availability in the same statement.
func (s *LeaveService) debitBalance(ctx context.Context, tx repository.Store, leave *models.Leave) error {
	err := tx.IncrementLeaveUsed(ctx, leave.UserID, leave.BalanceYear, leave.LeaveType, leave.Days)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, repository.ErrRecordNotFound):
		return apperrors.BalanceNotFound("Leave balance not found").WithDetail("year", leave.BalanceYear)
	case stderrors.Is(err, repository.ErrBalanceExceeded):
		available := 0
		if b, getErr := tx.GetLeaveBalance(ctx, leave.UserID, leave.BalanceYear); getErr == nil {
			available = b.Available(leave.LeaveType)
		}
		return apperrors.InsufficientBalance(leave.LeaveType, available)
	}
	return storeError(err, "")
}

// Reject từ chối đơn đang pending, không đụng tới số dư hay chấm công
func (s *LeaveService) Reject(ctx context.Context, caller types.Caller, leaveID uint, reason string) (*models.Leave, error) {
	if err := authorize(caller, types.CapLeaveApprove); err != nil {
		return nil, err
	}

	leave, err := s.store.GetLeave(ctx, leaveID)
	if err != nil {
		return nil, storeError(err, "Leave request not found")
	}
	if err := models.GetLeaveState(leave.Status).Reject(leave); err != nil {
		return nil, apperrors.AlreadyProcessed("Leave request already processed")
	}

	decidedAt := s.now()
	reason = strings.TrimSpace(reason)
	err = s.store.TransitionLeave(ctx, leaveID, constants.LeaveStatusPending, repository.LeaveDecision{
		Status:          constants.LeaveStatusRejected,
		DecidedBy:       caller.UserID,
		DecidedAt:       decidedAt,
		RejectionReason: reason,
	})
	if stderrors.Is(err, repository.ErrStatusConflict) {
		return nil, apperrors.AlreadyProcessed("Leave request already processed")
	}
	if err != nil {
		return nil, storeError(err, "Leave request not found")
	}

	decidedBy := caller.UserID
	leave.ApprovedBy = &decidedBy
	leave.ApprovedAt = &decidedAt
	leave.RejectionReason = reason

	s.notify(notification.NewMessageBuilder(notification.EventLeaveRejected, leave.UserID).
		WithMessage("Your %s leave (%s to %s) was rejected", leave.LeaveType,
			leave.StartDate.Format(DateLayout), leave.EndDate.Format(DateLayout)).
		WithData(leave).
		Build())
	return leave, nil
}

// Get trả về một đơn; nhân viên chỉ xem được đơn của mình
func (s *LeaveService) Get(ctx context.Context, caller types.Caller, leaveID uint) (*models.Leave, error) {
	leave, err := s.store.GetLeave(ctx, leaveID)
	if err != nil {
		return nil, storeError(err, "Leave request not found")
	}
	if err := authorizeSelfOr(caller, leave.UserID, types.CapLeaveManage); err != nil {
		return nil, err
	}
	return leave, nil
}

// List: admin/hr thấy mọi đơn (có thể lọc theo user), nhân viên chỉ thấy đơn của mình
func (s *LeaveService) List(ctx context.Context, caller types.Caller, userID uint, status string) ([]models.Leave, error) {
	if caller.UserID == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	filter := repository.LeaveFilter{UserID: userID, Status: status}
	if !caller.Can(types.CapLeaveManage) {
		filter.UserID = caller.UserID
	}
	leaves, err := s.store.ListLeaves(ctx, filter)
	if err != nil {
		return nil, storeError(err, "")
	}
	return leaves, nil
}

// GetBalance trả về số dư phép của năm (0 = năm hiện tại), ưu tiên cache
func (s *LeaveService) GetBalance(ctx context.Context, caller types.Caller, userID uint, year int) (*models.LeaveBalance, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if err := authorizeSelfOr(caller, userID, types.CapLeaveManage); err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}

	key := balanceCacheKey(userID, year)
	var cached models.LeaveBalance
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Debug("balance cache read failed for %s: %v", key, err)
	} else if hit {
		return &cached, nil
	}

	balance, err := s.store.GetLeaveBalance(ctx, userID, year)
	if stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, apperrors.BalanceNotFound("Leave balance not found").WithDetail("year", year)
	}
	if err != nil {
		return nil, storeError(err, "")
	}
	if err := s.cache.Set(ctx, key, balance, balanceCacheTTL); err != nil {
		s.logger.Debug("balance cache write failed for %s: %v", key, err)
	}
	return balance, nil
}

// SetAllocation ghi đè số ngày được cấp của một loại phép. Không cho phép
// cấp ít hơn số ngày đã dùng.
func (s *LeaveService) SetAllocation(ctx context.Context, caller types.Caller, userID uint, year int, leaveType string, days int) (*models.LeaveBalance, error) {
	if err := authorize(caller, types.CapLeaveManage); err != nil {
		return nil, err
	}
	category, err := LeaveCategoryMatcher.Parse(leaveType)
	if err != nil {
		return nil, err
	}
	if !constants.IsFundedLeave(category) {
		return nil, apperrors.Validation("Unpaid leave has no allocation")
	}
	if days < 0 {
		return nil, apperrors.Validation("Allocation must not be negative")
	}
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}

	var updated *models.LeaveBalance
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		balance, err := tx.GetLeaveBalance(ctx, userID, year)
		if stderrors.Is(err, repository.ErrRecordNotFound) {
			return apperrors.BalanceNotFound("Leave balance not found").WithDetail("year", year)
		}
		if err != nil {
			return storeError(err, "")
		}
		if used := balance.Used(category); days < used {
			return apperrors.Validation(fmt.Sprintf("Allocation cannot be below the %d %s days already used", used, category))
		}
		if err := tx.SetLeaveAllocation(ctx, userID, year, category, days); err != nil {
			return storeError(err, "Leave balance not found")
		}
		balance.SetAllocated(category, days)
		updated = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateBalance(ctx, userID, year)
	return updated, nil
}

// ProvisionYear tạo số dư mặc định cho mọi nhân viên đang làm việc; bỏ qua ai đã có
func (s *LeaveService) ProvisionYear(ctx context.Context, year int) (int, error) {
	employees, err := s.store.ListEmployees(ctx, constants.EmployeeStatusActive)
	if err != nil {
		return 0, storeError(err, "")
	}
	created := 0
	for _, e := range employees {
		err := s.store.CreateLeaveBalance(ctx, models.NewDefaultLeaveBalance(e.UserID, year))
		if stderrors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			logger.LogError(s.logger, "leave", "ProvisionYear", "create balance", e.UserID, err)
			return created, storeError(err, "")
		}
		created++
	}
	return created, nil
}

func (s *LeaveService) invalidateBalance(ctx context.Context, userID uint, year int) {
	if err := s.cache.Delete(ctx, balanceCacheKey(userID, year)); err != nil {
		s.logger.Error("invalidate balance cache for user %d: %v", userID, err)
	}
}

func (s *LeaveService) notify(message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.logger.Debug("notification not sent: %v", err)
	}
}
