package services

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/types"
)

const (
	holidaysCacheKey = "holidays:all"
	holidaysCacheTTL = time.Hour
)

// HolidayService quản lý ngày nghỉ lễ của công ty
type HolidayService struct {
	store  repository.Store
	cache  Cache
	logger logger.Logger
	loc    *time.Location
}

func NewHolidayService(store repository.Store, cache Cache, log logger.Logger, loc *time.Location) *HolidayService {
	if cache == nil {
		cache = noCache{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &HolidayService{store: store, cache: cache, logger: log, loc: loc}
}

// HolidayInput là dữ liệu tạo/sửa ngày lễ
type HolidayInput struct {
	Name     string
	FromDate time.Time
	ToDate   time.Time
}

func (s *HolidayService) validate(in HolidayInput) (HolidayInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.FromDate.IsZero() || in.ToDate.IsZero() {
		return in, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Name, fromDate and toDate are required", nil)
	}
	in.FromDate = Midnight(in.FromDate, s.loc)
	in.ToDate = Midnight(in.ToDate, s.loc)
	if in.ToDate.Before(in.FromDate) {
		return in, apperrors.Validation("toDate must not be before fromDate")
	}
	return in, nil
}

func (s *HolidayService) Create(ctx context.Context, caller types.Caller, in HolidayInput) (*models.Holiday, error) {
	if err := authorize(caller, types.CapAttendanceManage); err != nil {
		return nil, err
	}
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	holiday := &models.Holiday{Name: in.Name, FromDate: in.FromDate, ToDate: in.ToDate}
	if err := s.store.CreateHoliday(ctx, holiday); err != nil {
		return nil, storeError(err, "")
	}
	s.invalidate(ctx)
	return holiday, nil
}

func (s *HolidayService) Update(ctx context.Context, caller types.Caller, id uint, in HolidayInput) (*models.Holiday, error) {
	if err := authorize(caller, types.CapAttendanceManage); err != nil {
		return nil, err
	}
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	holiday, err := s.store.GetHoliday(ctx, id)
	if err != nil {
		return nil, storeError(err, "Holiday not found")
	}
	holiday.Name = in.Name
	holiday.FromDate = in.FromDate
	holiday.ToDate = in.ToDate
	if err := s.store.SaveHoliday(ctx, holiday); err != nil {
		return nil, storeError(err, "Holiday not found")
	}
	s.invalidate(ctx)
	return holiday, nil
}

func (s *HolidayService) Get(ctx context.Context, id uint) (*models.Holiday, error) {
	holiday, err := s.store.GetHoliday(ctx, id)
	if err != nil {
		return nil, storeError(err, "Holiday not found")
	}
	return holiday, nil
}

// List trả về ngày lễ giao với [from, to]. Không có khoảng thì đọc từ cache.
func (s *HolidayService) List(ctx context.Context, from, to time.Time) ([]models.Holiday, error) {
	unbounded := from.IsZero() && to.IsZero()
	if unbounded {
		var cached []models.Holiday
		if hit, err := s.cache.Get(ctx, holidaysCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}
	holidays, err := s.store.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, storeError(err, "")
	}
	if unbounded {
		if err := s.cache.Set(ctx, holidaysCacheKey, holidays, holidaysCacheTTL); err != nil {
			s.logger.Debug("holiday cache write failed: %v", err)
		}
	}
	return holidays, nil
}

func (s *HolidayService) Delete(ctx context.Context, caller types.Caller, ids []uint) error {
	if err := authorize(caller, types.CapAttendanceManage); err != nil {
		return err
	}
	if len(ids) == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "No holiday ids provided", nil)
	}
	if err := s.store.DeleteHolidays(ctx, ids); err != nil {
		return storeError(err, "")
	}
	s.invalidate(ctx)
	return nil
}

func (s *HolidayService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, holidaysCacheKey); err != nil {
		s.logger.Error("invalidate holiday cache: %v", err)
	}
}
