package controllers

import (
	"time"

	"github.com/mihirmehra/employee-management-system/dto"
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"

	"github.com/gin-gonic/gin"
)

type EmployeeController struct {
	Service  *services.EmployeeService
	Location *time.Location
}

func NewEmployeeController(service *services.EmployeeService, loc *time.Location) EmployeeController {
	return EmployeeController{Service: service, Location: loc}
}

// CreateEmployee tạo user, hồ sơ nhân viên và số dư phép năm hiện tại
// @Summary Provision an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param body body dto.ProvisionEmployeeRequest true "Employee"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employees [post]
func (e EmployeeController) CreateEmployee(c *gin.Context) {
	var req dto.ProvisionEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	joining, ok := parseDate(c, "joiningDate", req.JoiningDate, e.Location)
	if !ok {
		return
	}
	employee, err := e.Service.Provision(c.Request.Context(), middleware.CallerFrom(c), services.ProvisionEmployeeInput{
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Designation:  req.Designation,
		SalaryType:   req.SalaryType,
		Salary:       req.Salary,
		HourlyRate:   req.HourlyRate,
		WorkingDays:  req.WorkingDays,
		JoiningDate:  joining,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Created(c, "Employee created", employee)
}

func (e EmployeeController) GetEmployees(c *gin.Context) {
	employees, err := e.Service.List(c.Request.Context(), middleware.CallerFrom(c), c.Query("status"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	page, limit := pageParams(c)
	response.SuccessWithPagination(c, paginate(employees, page, limit), page, limit, len(employees))
}

func (e EmployeeController) GetEmployeeDetail(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	employee, err := e.Service.Get(c.Request.Context(), middleware.CallerFrom(c), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, employee)
}

func (e EmployeeController) GetProfile(c *gin.Context) {
	employee, err := e.Service.Get(c.Request.Context(), middleware.CallerFrom(c), 0)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, employee)
}

func (e EmployeeController) ChangeEmployeeStatus(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var req dto.UpdateEmployeeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := e.Service.UpdateStatus(c.Request.Context(), middleware.CallerFrom(c), userID, req.Status)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, employee)
}

func (e EmployeeController) GetStats(c *gin.Context) {
	stats, err := e.Service.Stats(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, stats)
}
