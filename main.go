package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mihirmehra/employee-management-system/commands"
	"github.com/mihirmehra/employee-management-system/config"
	"github.com/mihirmehra/employee-management-system/constants"
	"github.com/mihirmehra/employee-management-system/controllers"
	"github.com/mihirmehra/employee-management-system/jobs"
	"github.com/mihirmehra/employee-management-system/models"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/routes"
	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/services/logger"
	"github.com/mihirmehra/employee-management-system/services/notification"
	"github.com/mihirmehra/employee-management-system/types"
	"github.com/mihirmehra/employee-management-system/validator"
)

const payrollLockTTL = 2 * time.Minute

// app gom các service dùng chung cho server và các lệnh CLI
type app struct {
	cfg        *config.AppConfig
	log        logger.Logger
	tokens     *services.TokenService
	leaves     *services.LeaveService
	payroll    *services.PayrollService
	attendance *services.AttendanceService
	employees  *services.EmployeeService
	holidays   *services.HolidayService
	uploader   services.Uploader
}

func newApp(ctx context.Context, cfg *config.AppConfig, log logger.Logger, notifier notification.Service) (*app, error) {
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	store := repository.NewGormStore(db)

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	var cache services.Cache
	var locker services.Locker = services.NewLocalLocker()
	if rdb != nil {
		cache = services.NewRedisCache(rdb)
		locker = services.NewRedisLocker(config.NewLockClient(rdb), payrollLockTTL)
	}

	cld, err := config.ConnectCloudinary(cfg)
	if err != nil {
		return nil, err
	}

	var geocoder services.Geocoder
	if cfg.GoongAPIKey != "" {
		geocoder = services.NewGoongGeocoder(cfg.GoongAPIKey)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		tokens: services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		leaves: services.NewLeaveService(services.LeaveServiceOptions{
			Store:    store,
			Cache:    cache,
			Notifier: notifier,
			Logger:   log,
			Location: cfg.Location,
		}),
		payroll: services.NewPayrollService(services.PayrollServiceOptions{
			Store:       store,
			Locker:      locker,
			Notifier:    notifier,
			Logger:      log,
			Location:    cfg.Location,
			CompanyName: cfg.CompanyName,
		}),
		attendance: services.NewAttendanceService(services.AttendanceServiceOptions{
			Store:     store,
			Geocoder:  geocoder,
			Logger:    log,
			Location:  cfg.Location,
			Office:    services.Geofence{Lat: cfg.OfficeLat, Lng: cfg.OfficeLng, RadiusKm: cfg.OfficeRadiusKm},
			LateAfter: cfg.LateAfter,
		}),
		employees: services.NewEmployeeService(services.EmployeeServiceOptions{
			Store:    store,
			Cache:    cache,
			Logger:   log,
			Location: cfg.Location,
		}),
		holidays: services.NewHolidayService(store, cache, log, cfg.Location),
		uploader: services.NewCloudinaryUploader(cld),
	}, nil
}

// @title Employee Management API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appLogger := logger.NewDefaultLogger(logger.ParseLevel(cfg.LogLevel))

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = serve(cfg, appLogger)
	case "issue-token":
		err = issueToken(cfg, args)
	case "run-payroll":
		err = runPayroll(cfg, appLogger, args)
	case "provision-balances":
		err = provisionBalances(cfg, appLogger, args)
	default:
		err = fmt.Errorf("unknown command %q (serve, issue-token, run-payroll, provision-balances)", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func serve(cfg *config.AppConfig, appLogger *logger.DefaultLogger) error {
	ctx := context.Background()
	if err := validator.Setup(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	router, m, c := config.InitApp(cfg, appLogger)
	a, err := newApp(ctx, cfg, appLogger, notification.NewMelodyService(m))
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	if cfg.CronEnabled {
		scheduler := &jobs.Scheduler{
			Payroll:  a.payroll,
			Balances: a.leaves,
			Logger:   appLogger,
			Location: cfg.Location,
		}
		if err := jobs.InitCronJobs(c, scheduler); err != nil {
			return fmt.Errorf("failed to initialize cron jobs: %w", err)
		}
		defer c.Stop()
	}

	routes.SetupRoutes(router, routes.Controllers{
		Tokens:        a.tokens,
		Leave:         controllers.NewLeaveController(a.leaves, cfg.Location),
		Payroll:       controllers.NewPayrollController(a.payroll, cfg.Location),
		Attendance:    controllers.NewAttendanceController(a.attendance, a.uploader, appLogger, cfg.Location),
		Employee:      controllers.NewEmployeeController(a.employees, cfg.Location),
		Holiday:       controllers.NewHolidayController(a.holidays, cfg.Location),
		Upload:        controllers.NewUploadController(a.uploader, a.employees, appLogger),
		Notifications: controllers.NewNotificationController(m, a.tokens, appLogger),
	})

	appLogger.Info("Server starting on port %s (%s)", cfg.Port, cfg.Env)
	return router.Run(":" + cfg.Port)
}

// issueToken in token cho một user; không cần kết nối DB
func issueToken(cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	userID := fs.Uint("user", 0, "user id")
	role := fs.String("role", constants.RoleEmployee, "admin, hr or employee")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == 0 {
		return fmt.Errorf("-user is required")
	}
	parsedRole, err := services.RoleMatcher.Parse(*role)
	if err != nil {
		return err
	}

	cmd := commands.NewIssueTokenCommand(
		services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		types.Caller{UserID: *userID, Role: parsedRole},
	)
	if err := cmd.Execute(context.Background()); err != nil {
		return err
	}
	fmt.Println(cmd.Token)
	return nil
}

func runPayroll(cfg *config.AppConfig, appLogger *logger.DefaultLogger, args []string) error {
	fs := flag.NewFlagSet("run-payroll", flag.ContinueOnError)
	period := fs.String("period", "", "YYYY-MM, mặc định là tháng trước")
	if err := fs.Parse(args); err != nil {
		return err
	}
	month, year := commands.PreviousMonth(time.Now(), cfg.Location)
	if *period != "" {
		var err error
		if month, year, err = services.ParsePeriod(*period); err != nil {
			return err
		}
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, appLogger, noopNotifier{})
	if err != nil {
		return err
	}
	cmd := commands.NewRunPayrollCommand(a.payroll, month, year)
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	fmt.Printf("calculated=%d skipped_paid=%d failed=%d\n", cmd.Report.Calculated, cmd.Report.SkippedPaid, cmd.Report.Failed)
	return nil
}

func provisionBalances(cfg *config.AppConfig, appLogger *logger.DefaultLogger, args []string) error {
	fs := flag.NewFlagSet("provision-balances", flag.ContinueOnError)
	year := fs.Int("year", time.Now().In(cfg.Location).Year(), "balance year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, appLogger, noopNotifier{})
	if err != nil {
		return err
	}
	cmd := commands.NewProvisionBalancesCommand(a.leaves, *year)
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	fmt.Printf("created=%d\n", cmd.Created)
	return nil
}

// noopNotifier bỏ qua thông báo khi chạy từ CLI, không có websocket client nào
type noopNotifier struct{}

func (noopNotifier) SendMessage(string) error { return nil }
