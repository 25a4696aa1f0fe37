package controllers

import (
	"net/http"
	"time"

	"github.com/mihirmehra/employee-management-system/dto"
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"

	"github.com/gin-gonic/gin"
)

type HolidayController struct {
	Service  *services.HolidayService
	Location *time.Location
}

func NewHolidayController(service *services.HolidayService, loc *time.Location) HolidayController {
	return HolidayController{Service: service, Location: loc}
}

func (h HolidayController) input(c *gin.Context) (services.HolidayInput, bool) {
	var req dto.HolidayRequest
	if !bindJSON(c, &req) {
		return services.HolidayInput{}, false
	}
	from, ok := parseDate(c, "fromDate", req.FromDate, h.Location)
	if !ok {
		return services.HolidayInput{}, false
	}
	to, ok := parseDate(c, "toDate", req.ToDate, h.Location)
	if !ok {
		return services.HolidayInput{}, false
	}
	return services.HolidayInput{Name: req.Name, FromDate: from, ToDate: to}, true
}

// GetHolidays lấy các kỳ nghỉ, lọc theo ?fromDate=&toDate=
func (h HolidayController) GetHolidays(c *gin.Context) {
	from, ok := queryDate(c, "fromDate", h.Location)
	if !ok {
		return
	}
	to, ok := queryDate(c, "toDate", h.Location)
	if !ok {
		return
	}
	holidays, err := h.Service.List(c.Request.Context(), from, to)
	if err != nil {
		response.AppError(c, err)
		return
	}
	page, limit := pageParams(c)
	response.SuccessWithPagination(c, paginate(holidays, page, limit), page, limit, len(holidays))
}

func (h HolidayController) GetDetailHoliday(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	holiday, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, holiday)
}

// CreateHoliday tạo một kỳ nghỉ mới
func (h HolidayController) CreateHoliday(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	holiday, err := h.Service.Create(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Created(c, "Holiday created", holiday)
}

func (h HolidayController) UpdateHoliday(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, ok := h.input(c)
	if !ok {
		return
	}
	holiday, err := h.Service.Update(c.Request.Context(), middleware.CallerFrom(c), id, in)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Holiday updated", holiday)
}

// DeleteHoliday xóa nhiều kỳ nghỉ theo danh sách id
func (h HolidayController) DeleteHoliday(c *gin.Context) {
	var req dto.DeleteHolidayRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), middleware.CallerFrom(c), req.IDs); err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Holidays deleted", nil)
}
