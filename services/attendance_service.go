package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/constants"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/types"

	"github.com/shopspring/decimal"
)

const (
	attendanceHistoryLimit = 30
	geocodeTimeout         = 3 * time.Second
)

// AttendanceServiceOptions gom các phụ thuộc của AttendanceService
type AttendanceServiceOptions struct {
	Store    repository.Store
	Geocoder Geocoder
	Logger   logger.Logger
	Clock    func() time.Time
	Location *time.Location
	Office   Geofence
	// LateAfter là mốc giờ trong ngày, check-in sau mốc này bị tính là late. 0 = tắt.
	LateAfter time.Duration
}

// AttendanceService xử lý check-in/check-out và thống kê chấm công
type AttendanceService struct {
	store     repository.Store
	geocoder  Geocoder
	logger    logger.Logger
	now       func() time.Time
	loc       *time.Location
	office    Geofence
	lateAfter time.Duration
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	s := &AttendanceService{
		store:     opts.Store,
		geocoder:  opts.Geocoder,
		logger:    opts.Logger,
		now:       opts.Clock,
		loc:       opts.Location,
		office:    opts.Office,
		lateAfter: opts.LateAfter,
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

// PunchInput là vị trí và ảnh gửi kèm khi check-in/check-out
type PunchInput struct {
	Lat   float64
	Lng   float64
	Photo string
}

func (in PunchInput) validate() error {
	if in.Lat < -90 || in.Lat > 90 || in.Lng < -180 || in.Lng > 180 {
		return apperrors.Validation("Invalid coordinates").
			WithDetail("lat", in.Lat).
			WithDetail("lng", in.Lng)
	}
	return nil
}

func requireIdentity(caller types.Caller) error {
	if caller.UserID == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	return nil
}

// address resolves the punch location; failures only cost the address.
func (s *AttendanceService) address(ctx context.Context, lat, lng float64) string {
	if s.geocoder == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()
	address, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		s.logger.Debug("reverse geocode %.5f,%.5f failed: %v", lat, lng, err)
		return ""
	}
	return address
}

func (s *AttendanceService) checkGeofence(in PunchInput) error {
	ok, distance := s.office.Contains(in.Lat, in.Lng)
	if !ok {
		return apperrors.Validation("You are outside the office area").
			WithDetail("distanceKm", decimal.NewFromFloat(distance).Round(2)).
			WithDetail("radiusKm", s.office.RadiusKm)
	}
	return nil
}

// CheckIn ghi nhận giờ vào của ngày hôm nay, mỗi ngày một lần
func (s *AttendanceService) CheckIn(ctx context.Context, caller types.Caller, in PunchInput) (*models.Attendance, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkGeofence(in); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	day := Midnight(now, s.loc)

	existing, err := s.store.GetAttendance(ctx, caller.UserID, day)
	if err != nil && !stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, storeError(err, "")
	}
	if existing != nil {
		if existing.HasCheckedIn() {
			return nil, apperrors.Validation("Already checked in today")
		}
		if existing.Status == constants.AttendanceOnLeave {
			return nil, apperrors.Validation("You are on leave today")
		}
	}

	record := existing
	if record == nil {
		record = &models.Attendance{UserID: caller.UserID, Date: day}
	}
	lat, lng := in.Lat, in.Lng
	record.CheckInTime = &now
	record.CheckInLat = &lat
	record.CheckInLng = &lng
	record.CheckInPhoto = in.Photo
	record.CheckInAddress = s.address(ctx, lat, lng)
	record.Status = constants.AttendancePresent
	if s.lateAfter > 0 && now.After(day.Add(s.lateAfter)) {
		record.Status = constants.AttendanceLate
	}

	if existing == nil {
		err = s.store.CreateAttendance(ctx, record)
	} else {
		err = s.store.SaveAttendance(ctx, record)
	}
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Validation("Already checked in today")
	}
	if err != nil {
		logger.LogError(s.logger, "attendance", "CheckIn", "save attendance", record, err)
		return nil, storeError(err, "")
	}
	s.logger.Info("user %d checked in at %s (%s)", caller.UserID, now.Format(time.RFC3339), record.Status)
	return record, nil
}

// CheckOut ghi nhận giờ ra và tổng số giờ làm (làm tròn 2 chữ số)
func (s *AttendanceService) CheckOut(ctx context.Context, caller types.Caller, in PunchInput) (*models.Attendance, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	day := Midnight(now, s.loc)

	record, err := s.store.GetAttendance(ctx, caller.UserID, day)
	if err != nil && !stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, storeError(err, "")
	}
	if record == nil || !record.HasCheckedIn() {
		return nil, apperrors.Validation("No check-in record found for today")
	}
	if record.HasCheckedOut() {
		return nil, apperrors.Validation("Already checked out today")
	}

	lat, lng := in.Lat, in.Lng
	record.CheckOutTime = &now
	record.CheckOutLat = &lat
	record.CheckOutLng = &lng
	record.CheckOutPhoto = in.Photo
	record.CheckOutAddress = s.address(ctx, lat, lng)
	record.TotalHours = decimal.NewFromFloat(now.Sub(*record.CheckInTime).Hours()).Round(2)

	if err := s.store.SaveAttendance(ctx, record); err != nil {
		logger.LogError(s.logger, "attendance", "CheckOut", "save attendance", record, err)
		return nil, storeError(err, "")
	}
	s.logger.Info("user %d checked out after %s hours", caller.UserID, record.TotalHours.StringFixed(2))
	return record, nil
}

// Today trả về bản ghi hôm nay của người gọi, nil nếu chưa có
func (s *AttendanceService) Today(ctx context.Context, caller types.Caller) (*models.Attendance, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	record, err := s.store.GetAttendance(ctx, caller.UserID, Midnight(s.now(), s.loc))
	if stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err, "")
	}
	return record, nil
}

// History trả về tối đa 30 bản ghi gần nhất trong khoảng [from, to].
// Chỉ admin/hr xem được lịch sử của người khác.
func (s *AttendanceService) History(ctx context.Context, caller types.Caller, userID uint, from, to time.Time) ([]models.Attendance, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	target := caller.UserID
	if userID != 0 && caller.Can(types.CapAttendanceManage) {
		target = userID
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.Validation("End date must not be before start date")
	}
	records, err := s.store.ListAttendance(ctx, repository.AttendanceFilter{
		UserID: target,
		From:   from,
		To:     to,
		Limit:  attendanceHistoryLimit,
	})
	if err != nil {
		return nil, storeError(err, "")
	}
	return records, nil
}

// AttendanceEntry là bản ghi chấm công kèm thông tin nhân viên
type AttendanceEntry struct {
	models.Attendance
	EmployeeName string `json:"employeeName"`
	EmployeeCode string `json:"employeeCode"`
}

// ForDate liệt kê chấm công của mọi nhân viên trong một ngày (mặc định hôm nay)
func (s *AttendanceService) ForDate(ctx context.Context, caller types.Caller, day time.Time) ([]AttendanceEntry, error) {
	if err := authorize(caller, types.CapAttendanceManage); err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = s.now()
	}
	day = Midnight(day, s.loc)

	records, err := s.store.ListAttendance(ctx, repository.AttendanceFilter{From: day, To: day})
	if err != nil {
		return nil, storeError(err, "")
	}
	employees, err := s.store.ListEmployees(ctx, "")
	if err != nil {
		return nil, storeError(err, "")
	}
	byUser := make(map[uint]models.Employee, len(employees))
	for _, e := range employees {
		byUser[e.UserID] = e
	}

	entries := make([]AttendanceEntry, 0, len(records))
	for _, r := range records {
		entry := AttendanceEntry{Attendance: r, EmployeeName: "Unknown", EmployeeCode: "N/A"}
		if e, ok := byUser[r.UserID]; ok {
			entry.EmployeeName = e.FullName()
			entry.EmployeeCode = e.EmployeeCode
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AttendanceStats là thống kê chấm công của một tháng
type AttendanceStats struct {
	Present      int             `json:"present"`
	Absent       int             `json:"absent"`
	Late         int             `json:"late"`
	HalfDay      int             `json:"halfDay"`
	OnLeave      int             `json:"onLeave"`
	TotalHours   decimal.Decimal `json:"totalHours"`
	WorkingDays  int             `json:"workingDays"`
	ExpectedDays int             `json:"expectedDays"`
}

// Stats tổng hợp chấm công tháng month (0-11). ExpectedDays là số ngày làm
// việc theo lịch của nhân viên, trừ ngày lễ.
func (s *AttendanceService) Stats(ctx context.Context, caller types.Caller, userID uint, month, year int) (*AttendanceStats, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if err := authorizeSelfOr(caller, userID, types.CapAttendanceManage); err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	first, last := MonthBounds(month, year, s.loc)

	records, err := s.store.ListAttendance(ctx, repository.AttendanceFilter{UserID: userID, From: first, To: last})
	if err != nil {
		return nil, storeError(err, "")
	}
	stats := &AttendanceStats{TotalHours: decimal.Zero}
	for _, r := range records {
		switch r.Status {
		case constants.AttendancePresent:
			stats.Present++
		case constants.AttendanceAbsent:
			stats.Absent++
		case constants.AttendanceLate:
			stats.Late++
		case constants.AttendanceHalfDay:
			stats.HalfDay++
		case constants.AttendanceOnLeave:
			stats.OnLeave++
		}
		stats.TotalHours = stats.TotalHours.Add(r.TotalHours)
	}
	stats.TotalHours = stats.TotalHours.Round(2)
	stats.WorkingDays = stats.Present + stats.Late + stats.HalfDay

	schedule := &models.Employee{}
	if e, err := s.store.GetEmployeeByUserID(ctx, userID); err == nil {
		schedule = e
	} else if !stderrors.Is(err, repository.ErrRecordNotFound) {
		return nil, storeError(err, "")
	}
	holidays, err := s.store.ListHolidays(ctx, first, last)
	if err != nil {
		return nil, storeError(err, "")
	}
	for _, day := range EachDay(first, last) {
		if !schedule.WorksOn(day.Weekday()) || onHoliday(holidays, day) {
			continue
		}
		stats.ExpectedDays++
	}
	return stats, nil
}

func onHoliday(holidays []models.Holiday, day time.Time) bool {
	for i := range holidays {
		if holidays[i].Covers(day) {
			return true
		}
	}
	return false
}

// UpdateStatus cho admin/hr sửa trạng thái và ghi chú của một bản ghi
func (s *AttendanceService) UpdateStatus(ctx context.Context, caller types.Caller, id uint, status, notes string) (*models.Attendance, error) {
	if err := authorize(caller, types.CapAttendanceManage); err != nil {
		return nil, err
	}
	parsed, err := AttendanceStatusMatcher.Parse(status)
	if err != nil {
		return nil, err
	}
	record, err := s.store.GetAttendanceByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Attendance record not found")
	}
	record.Status = parsed
	record.Notes = strings.TrimSpace(notes)
	if err := s.store.SaveAttendance(ctx, record); err != nil {
		return nil, storeError(err, "")
	}
	s.logger.Info("attendance %d set to %s by user %d", id, parsed, caller.UserID)
	return record, nil
}
