package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

// AppConfig là cấu hình đọc từ biến môi trường (.env nếu có)
type AppConfig struct {
	Env         string
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	Location    *time.Location
	LogLevel    string
	CompanyName string

	// DBDriver là "postgres" (mặc định) hoặc "sqlite"
	DBDriver   string
	SQLitePath string

	RedisAddr     string
	RedisUser     string
	RedisPassword string

	CloudinaryURL string
	GoongAPIKey   string

	OfficeLat      float64
	OfficeLng      float64
	OfficeRadiusKm float64
	// LateAfter tính từ 0h; check-in sau mốc này là đi muộn
	LateAfter time.Duration

	CronEnabled bool
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getFloat(key string) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// parseClock đọc "HH:MM" thành khoảng thời gian tính từ 0h
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Load nạp .env rồi dựng AppConfig
func Load() (*AppConfig, error) {
	LoadEnv()

	cfg := &AppConfig{
		Env:           getEnvDefault("ENV", "dev"),
		Port:          getEnvDefault("PORT", "8083"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getEnvDefault("LOG_LEVEL", "info"),
		CompanyName:   getEnvDefault("COMPANY_NAME", "Company"),
		DBDriver:      getEnvDefault("DB_DRIVER", DriverPostgres),
		SQLitePath:    getEnvDefault("SQLITE_PATH", "ems.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUser:     os.Getenv("REDIS_USER"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		GoongAPIKey:   os.Getenv("GOONG_API_KEY"),
		CronEnabled:   getEnvDefault("CRON_ENABLED", "true") == "true",
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}

	ttl, err := time.ParseDuration(getEnvDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	cfg.Location, err = time.LoadLocation(getEnvDefault("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	if cfg.OfficeLat, err = getFloat("OFFICE_LAT"); err != nil {
		return nil, err
	}
	if cfg.OfficeLng, err = getFloat("OFFICE_LNG"); err != nil {
		return nil, err
	}
	if cfg.OfficeRadiusKm, err = getFloat("OFFICE_RADIUS_KM"); err != nil {
		return nil, err
	}

	if raw := os.Getenv("LATE_AFTER"); raw != "" {
		if cfg.LateAfter, err = parseClock(raw); err != nil {
			return nil, fmt.Errorf("LATE_AFTER must be HH:MM: %w", err)
		}
	}
	return cfg, nil
}

// ConnectCloudinary trả về nil khi chưa cấu hình CLOUDINARY_URL
func ConnectCloudinary(cfg *AppConfig) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryURL == "" {
		log.Println("Cloudinary not configured, uploads are disabled")
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("Lỗi khi khởi tạo Cloudinary: %w", err)
	}
	return cld, nil
}
