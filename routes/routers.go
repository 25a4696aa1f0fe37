package routes

import (
	"net/http"

	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/controllers"
	_ "github.com/mihirmehra/employee-management-system/docs"
	middlewares "github.com/mihirmehra/employee-management-system/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controllers gom các controller đã khởi tạo cho router
type Controllers struct {
	Tokens        middlewares.CallerResolver
	Leave         controllers.LeaveController
	Payroll       controllers.PayrollController
	Attendance    controllers.AttendanceController
	Employee      controllers.EmployeeController
	Holiday       controllers.HolidayController
	Upload        controllers.UploadController
	Notifications *controllers.NotificationController
}

func SetupRoutes(router *gin.Engine, ctl Controllers) {
	auth := middlewares.AuthMiddleware(ctl.Tokens)
	staff := middlewares.AuthMiddleware(ctl.Tokens, constants.RoleAdmin, constants.RoleHR)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if ctl.Notifications != nil {
		router.GET("/ws", ctl.Notifications.Connect)
	}

	v1 := router.Group("/api/v1")

	// nghỉ phép
	v1.POST("/leaves", auth, ctl.Leave.CreateLeave)
	v1.GET("/leaves", auth, ctl.Leave.GetLeaves)
	v1.GET("/leaves/balance", auth, ctl.Leave.GetBalance)
	v1.PUT("/leaves/balance", auth, ctl.Leave.SetAllocation)
	v1.GET("/leaves/:id", auth, ctl.Leave.GetLeaveDetail)
	v1.PUT("/leaves/:id/approve", auth, ctl.Leave.ApproveLeave)
	v1.PUT("/leaves/:id/reject", auth, ctl.Leave.RejectLeave)

	// lương
	v1.POST("/payroll/calculate", auth, ctl.Payroll.CalculateSalary)
	v1.POST("/payroll/run", staff, ctl.Payroll.RunPayroll)
	v1.GET("/payroll", auth, ctl.Payroll.GetSalaries)
	v1.GET("/payroll/mine", auth, ctl.Payroll.GetMySalaries)
	v1.GET("/payroll/export", auth, ctl.Payroll.ExportSalaries)
	v1.PUT("/payroll/:id/process", auth, ctl.Payroll.ProcessSalary)
	v1.PUT("/payroll/:id/pay", auth, ctl.Payroll.MarkSalaryPaid)
	v1.GET("/payroll/:id/payslip", auth, ctl.Payroll.GetPayslip)

	// chấm công
	v1.POST("/attendance/checkin", auth, ctl.Attendance.CheckIn)
	v1.POST("/attendance/checkout", auth, ctl.Attendance.CheckOut)
	v1.GET("/attendance/today", auth, ctl.Attendance.GetToday)
	v1.GET("/attendance/history", auth, ctl.Attendance.GetHistory)
	v1.GET("/attendance/stats", auth, ctl.Attendance.GetStats)
	v1.GET("/attendance", auth, ctl.Attendance.GetAttendance)
	v1.PUT("/attendance/:id/status", auth, ctl.Attendance.UpdateStatus)

	// nhân viên
	v1.POST("/employees", auth, ctl.Employee.CreateEmployee)
	v1.GET("/employees", auth, ctl.Employee.GetEmployees)
	v1.GET("/employees/stats", auth, ctl.Employee.GetStats)
	v1.GET("/profile", auth, ctl.Employee.GetProfile)
	v1.PUT("/profile/avatar", auth, ctl.Upload.UploadAvatar)
	v1.GET("/employees/:userId", auth, ctl.Employee.GetEmployeeDetail)
	v1.PUT("/employees/:userId/status", auth, ctl.Employee.ChangeEmployeeStatus)

	// ngày lễ
	v1.GET("/holidays", auth, ctl.Holiday.GetHolidays)
	v1.POST("/holidays", auth, ctl.Holiday.CreateHoliday)
	v1.GET("/holidays/:id", auth, ctl.Holiday.GetDetailHoliday)
	v1.PUT("/holidays/:id", auth, ctl.Holiday.UpdateHoliday)
	v1.DELETE("/holidays", auth, ctl.Holiday.DeleteHoliday)

	v1.POST("/img/upload", auth, ctl.Upload.UploadImage)
	v1.POST("/img/multi-upload", auth, ctl.Upload.UploadImages)

	if ctl.Notifications != nil {
		v1.POST("/notifications", staff, ctl.Notifications.NotifyAll)
		v1.POST("/notifications/:userId", staff, ctl.Notifications.NotifyUser)
	}
}
