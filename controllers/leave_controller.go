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

type LeaveController struct {
	Service  *services.LeaveService
	Location *time.Location
}

func NewLeaveController(service *services.LeaveService, loc *time.Location) LeaveController {
	return LeaveController{Service: service, Location: loc}
}

// CreateLeave tạo đơn xin nghỉ
// @Summary Submit a leave request
// @Tags leaves
// @Accept json
// @Produce json
// @Param body body dto.CreateLeaveRequest true "Leave request"
// @Success 201 {object} response.Response
// @Router /leaves [post]
func (l LeaveController) CreateLeave(c *gin.Context) {
	var req dto.CreateLeaveRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, "startDate", req.StartDate, l.Location)
	if !ok {
		return
	}
	end, ok := parseDate(c, "endDate", req.EndDate, l.Location)
	if !ok {
		return
	}

	leave, err := l.Service.Submit(c.Request.Context(), middleware.CallerFrom(c), services.SubmitLeaveInput{
		UserID:    req.UserID,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Created(c, "Leave request submitted", leave)
}

// GetLeaves: admin/hr thấy tất cả, nhân viên thấy đơn của mình
func (l LeaveController) GetLeaves(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	leaves, err := l.Service.List(c.Request.Context(), middleware.CallerFrom(c), userID, c.Query("status"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	page, limit := pageParams(c)
	response.SuccessWithPagination(c, paginate(leaves, page, limit), page, limit, len(leaves))
}

func (l LeaveController) GetLeaveDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	leave, err := l.Service.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, leave)
}

// ApproveLeave duyệt đơn và trừ số dư phép
// @Summary Approve a pending leave request
// @Tags leaves
// @Produce json
// @Param id path int true "Leave ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /leaves/{id}/approve [put]
func (l LeaveController) ApproveLeave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	leave, err := l.Service.Approve(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Leave request approved", leave)
}

func (l LeaveController) RejectLeave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectLeaveRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	leave, err := l.Service.Reject(c.Request.Context(), middleware.CallerFrom(c), id, req.Reason)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Leave request rejected", leave)
}

// GetBalance trả về số dư phép; mặc định là của người gọi, năm hiện tại
func (l LeaveController) GetBalance(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", 0)
	if !ok {
		return
	}
	balance, err := l.Service.GetBalance(c.Request.Context(), middleware.CallerFrom(c), userID, year)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, balance)
}

func (l LeaveController) SetAllocation(c *gin.Context) {
	var req dto.SetAllocationRequest
	if !bindJSON(c, &req) {
		return
	}
	balance, err := l.Service.SetAllocation(c.Request.Context(), middleware.CallerFrom(c), req.UserID, req.Year, req.LeaveType, *req.Days)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, balance)
}
