package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/dto"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/services/logger"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	Service  *services.AttendanceService
	Uploader services.Uploader
	Logger   logger.Logger
	Location *time.Location
	Clock    func() time.Time
}

func NewAttendanceController(service *services.AttendanceService, uploader services.Uploader, log logger.Logger, loc *time.Location) AttendanceController {
	return AttendanceController{Service: service, Uploader: uploader, Logger: log, Location: loc, Clock: time.Now}
}

func (a AttendanceController) now() time.Time {
	if a.Clock == nil {
		return time.Now().In(a.Location)
	}
	return a.Clock().In(a.Location)
}

// punchInput đọc vị trí từ JSON, hoặc từ form multipart kèm file ảnh "photo"
func (a AttendanceController) punchInput(c *gin.Context) (services.PunchInput, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req dto.PunchRequest
		if !bindJSON(c, &req) {
			return services.PunchInput{}, false
		}
		return services.PunchInput{Lat: *req.Lat, Lng: *req.Lng, Photo: req.Photo}, true
	}

	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.PostForm("lng"), 64)
	if latErr != nil || lngErr != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "lat and lng are required", nil))
		return services.PunchInput{}, false
	}
	in := services.PunchInput{Lat: lat, Lng: lng}

	file, err := c.FormFile("photo")
	if err != nil {
		// ảnh không bắt buộc
		return in, true
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Cannot open photo")
		return in, false
	}
	defer src.Close()

	url, err := upload(c.Request.Context(), a.Uploader, src, services.FolderAttendance)
	if err != nil {
		logger.LogError(a.Logger, "attendance", "punchInput", "upload photo", file.Filename, err)
		response.AppError(c, err)
		return in, false
	}
	in.Photo = url
	return in, true
}

// CheckIn chấm công vào
// @Summary Check in for today
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body dto.PunchRequest true "Location"
// @Success 201 {object} response.Response
// @Router /attendance/checkin [post]
func (a AttendanceController) CheckIn(c *gin.Context) {
	in, ok := a.punchInput(c)
	if !ok {
		return
	}
	record, err := a.Service.CheckIn(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Created(c, "Checked in successfully", record)
}

func (a AttendanceController) CheckOut(c *gin.Context) {
	in, ok := a.punchInput(c)
	if !ok {
		return
	}
	record, err := a.Service.CheckOut(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Checked out successfully", record)
}

func (a AttendanceController) GetToday(c *gin.Context) {
	record, err := a.Service.Today(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, record)
}

func (a AttendanceController) GetHistory(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	from, ok := queryDate(c, "startDate", a.Location)
	if !ok {
		return
	}
	to, ok := queryDate(c, "endDate", a.Location)
	if !ok {
		return
	}
	records, err := a.Service.History(c.Request.Context(), middleware.CallerFrom(c), userID, from, to)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, records)
}

// GetAttendance liệt kê chấm công của mọi người trong ngày (?date=YYYY-MM-DD)
func (a AttendanceController) GetAttendance(c *gin.Context) {
	day, ok := queryDate(c, "date", a.Location)
	if !ok {
		return
	}
	entries, err := a.Service.ForDate(c.Request.Context(), middleware.CallerFrom(c), day)
	if err != nil {
		response.AppError(c, err)
		return
	}
	page, limit := pageParams(c)
	response.SuccessWithPagination(c, paginate(entries, page, limit), page, limit, len(entries))
}

func (a AttendanceController) GetStats(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	month, year, ok := periodParams(c, a.now())
	if !ok {
		return
	}
	stats, err := a.Service.Stats(c.Request.Context(), middleware.CallerFrom(c), userID, month, year)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, stats)
}

func (a AttendanceController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAttendanceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := a.Service.UpdateStatus(c.Request.Context(), middleware.CallerFrom(c), id, req.Status, req.Notes)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, record)
}
