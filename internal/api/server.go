package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alsadi22/swaedfirebase-sub001/docs"
	v1 "github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1"
	"github.com/alsadi22/swaedfirebase-sub001/internal/api/middleware"
	"github.com/alsadi22/swaedfirebase-sub001/internal/config"
	"github.com/alsadi22/swaedfirebase-sub001/internal/notifier"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository/dao"
	"github.com/alsadi22/swaedfirebase-sub001/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	attendanceHandler := s.initAttendanceHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, attendanceHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	svc := service.NewEventService(eventRepo, attendanceRepo, s.Config.API.GeofenceRadius)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initAttendanceHandler(db *gorm.DB) *v1.AttendanceHandler {
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewAttendanceService(attendanceRepo, eventRepo, notifier.NewLogNotifier(zap.L()))
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewAttendanceHandler(svc, uSvc, s.Config.API.CheckTimeout)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, attendanceHandler *v1.AttendanceHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	events := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		events.GET("/events", eventHandler.HandleGetEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
		events.GET("/events/:eventID/attendance", eventHandler.HandleGetEventAttendance)
		events.GET("/events/:eventID/attendance/me", attendanceHandler.HandleGetMyEventStatus)
		events.POST("/events", eventHandler.HandleCreateEvent)
	}

	attendance := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		attendance.GET("/attendance/me", attendanceHandler.HandleGetMyAttendance)
		attendance.POST("/attendance/check-in", attendanceHandler.HandleCheckIn)
		attendance.POST("/attendance/check-out", attendanceHandler.HandleCheckOut)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "SwaedUAE Attendance API"
	docs.SwaggerInfo.Description = "Volunteer event attendance verification API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
