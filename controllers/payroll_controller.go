package controllers

import (
	"bytes"
	"net/http"
	"time"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/dto"
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollController struct {
	Service  *services.PayrollService
	Location *time.Location
	Clock    func() time.Time
}

func NewPayrollController(service *services.PayrollService, loc *time.Location) PayrollController {
	return PayrollController{Service: service, Location: loc, Clock: time.Now}
}

func (p PayrollController) now() time.Time {
	if p.Clock == nil {
		return time.Now().In(p.Location)
	}
	return p.Clock().In(p.Location)
}

// CalculateSalary tính bảng lương draft cho một nhân viên
// @Summary Calculate a monthly salary
// @Tags payroll
// @Accept json
// @Produce json
// @Param body body dto.CalculateSalaryRequest true "Employee and period"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payroll/calculate [post]
func (p PayrollController) CalculateSalary(c *gin.Context) {
	var req dto.CalculateSalaryRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, caller := c.Request.Context(), middleware.CallerFrom(c)

	var err error
	var salary *models.Salary
	switch {
	case req.Period != "":
		salary, err = p.Service.CalculateByMonth(ctx, caller, req.UserID, req.Period)
	case req.Month != nil && req.Year != 0:
		salary, err = p.Service.Calculate(ctx, caller, req.UserID, *req.Month, req.Year)
	default:
		err = apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Provide period (YYYY-MM) or month and year", nil)
	}
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Salary calculated", salary)
}

// RunPayroll tính lương draft cho toàn bộ nhân viên đang làm việc
func (p PayrollController) RunPayroll(c *gin.Context) {
	var req dto.RunPayrollRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := p.Service.RunMonth(c.Request.Context(), *req.Month, req.Year)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, report)
}

func (p PayrollController) ProcessSalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	salary, err := p.Service.Process(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Salary processed", salary)
}

func (p PayrollController) MarkSalaryPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	salary, err := p.Service.MarkPaid(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Salary marked as paid", salary)
}

// GetSalaries liệt kê bảng lương theo kỳ, mặc định là tháng hiện tại
func (p PayrollController) GetSalaries(c *gin.Context) {
	month, year, ok := periodParams(c, p.now())
	if !ok {
		return
	}
	salaries, err := p.Service.List(c.Request.Context(), middleware.CallerFrom(c), month, year)
	if err != nil {
		response.AppError(c, err)
		return
	}
	page, limit := pageParams(c)
	response.SuccessWithPagination(c, paginate(salaries, page, limit), page, limit, len(salaries))
}

func (p PayrollController) GetMySalaries(c *gin.Context) {
	salaries, err := p.Service.Mine(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, salaries)
}

func (p PayrollController) GetPayslip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payslip, err := p.Service.Payslip(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, payslip)
}

// ExportSalaries tải bảng lương của kỳ dưới dạng xlsx
func (p PayrollController) ExportSalaries(c *gin.Context) {
	month, year, ok := periodParams(c, p.now())
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := p.Service.Export(c.Request.Context(), middleware.CallerFrom(c), month, year, &buf); err != nil {
		response.AppError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+services.ExportFilename(month, year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
