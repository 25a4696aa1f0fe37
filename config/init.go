package config

import (
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/services/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// InitApp dựng router (CORS, request id, access log), melody và cron theo múi giờ của app
func InitApp(cfg *AppConfig, log logger.Logger) (*gin.Engine, *melody.Melody, *cron.Cron) {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	configCors.AddExposeHeaders(middleware.RequestIDHeader)
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))
	router.Use(middleware.RequestIDMiddleware(), middleware.AccessLog(log), middleware.ErrorHandler())

	router.SetTrustedProxies(nil)

	m := melody.New()
	c := cron.New(cron.WithLocation(cfg.Location))

	return router, m, c
}
