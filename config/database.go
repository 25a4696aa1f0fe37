package config

import (
	"fmt"
	"log"
	"os"

	"github.com/mihirmehra/employee-management-system/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func getDBConfigByEnv(env, timezone string) (string, error) {
	var prefix string
	switch env {
	case "dev":
		prefix = "DEV"
	case "qc":
		prefix = "QC"
	case "prod":
		prefix = "PROD"
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}

	user := os.Getenv(prefix + "_DB_USER")
	password := os.Getenv(prefix + "_DB_PASSWORD")
	host := os.Getenv(prefix + "_DB_HOST")
	port := os.Getenv(prefix + "_DB_PORT")
	name := os.Getenv(prefix + "_DB_NAME")
	sslmode := getEnvDefault(prefix+"_DB_SSLMODE", "require")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, name, port, sslmode, timezone)
	return dsn, nil
}

// ConnectDB mở kết nối PostgreSQL theo ENV, hoặc SQLite khi DB_DRIVER=sqlite.
// TranslateError để unique violation trả về gorm.ErrDuplicatedKey.
func ConnectDB(cfg *AppConfig) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}
	if cfg.DBDriver == DriverSQLite {
		db, err := repository.OpenSQLite(cfg.SQLitePath, level)
		if err != nil {
			return nil, err
		}
		log.Printf("Using sqlite database %s", cfg.SQLitePath)
		return db, nil
	}

	dsn, err := getDBConfigByEnv(cfg.Env, cfg.Location.String())
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	log.Println("Successfully connected to db")
	return db, nil
}
