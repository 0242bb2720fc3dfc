package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/volunthub/volunthub-api/docs"
	v1 "github.com/volunthub/volunthub-api/internal/api/handler/v1"
	"github.com/volunthub/volunthub-api/internal/api/middleware"
	"github.com/volunthub/volunthub-api/internal/config"
	"github.com/volunthub/volunthub-api/internal/repository"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
	"github.com/volunthub/volunthub-api/internal/reward"
	"github.com/volunthub/volunthub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	rules *reward.Rules
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		rules:  reward.Default(conf.Rewards.LevelSize),
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	rewardHandler := s.initRewardHandler(db)
	eventHandler := s.initEventHandler(db)
	applicationHandler := s.initApplicationHandler(db)
	completionHandler := s.initCompletionHandler(db)
	s.MountHandlers(authHandler, userHandler, rewardHandler, eventHandler, applicationHandler, completionHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, s.rules)
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

func (s *Server) initRewardHandler(db *gorm.DB) *v1.RewardHandler {
	rewardDAO := dao.NewRewardDAO(db)
	repo := repository.NewRewardRepository(rewardDAO)
	svc := service.NewRewardService(repo, s.rules)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewRewardHandler(svc, uSvc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo, s.rules, s.Config.Rewards)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initApplicationHandler(db *gorm.DB) *v1.ApplicationHandler {
	applicationDAO := dao.NewApplicationDAO(db)
	repo := repository.NewApplicationRepository(applicationDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewApplicationService(repo, eventRepo, s.rules)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewApplicationHandler(svc, uSvc)

	return handler
}

func (s *Server) initCompletionHandler(db *gorm.DB) *v1.CompletionHandler {
	completionDAO := dao.NewCompletionDAO(db)
	repo := repository.NewCompletionRepository(completionDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewCompletionService(repo, eventRepo, s.rules)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewCompletionHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	rewardHandler *v1.RewardHandler,
	eventHandler *v1.EventHandler,
	applicationHandler *v1.ApplicationHandler,
	completionHandler *v1.CompletionHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/profile", userHandler.HandleGetProfile)
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.GET("/users/:userID/grants", rewardHandler.HandleGetGrants)
		authenticated.POST("/users/:userID/coins/award", rewardHandler.HandleAwardCoins)

		authenticated.POST("/rewards/credit", rewardHandler.HandleCreditReward)
		authenticated.POST("/coins/spend", rewardHandler.HandleSpendCoins)

		authenticated.GET("/events", eventHandler.HandleGetEvents)
		authenticated.GET("/events/mine", eventHandler.HandleGetMyEvents)
		authenticated.POST("/events", eventHandler.HandleCreateEvent)
		authenticated.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authenticated.PATCH("/events/:eventID/status", eventHandler.HandleSetEventStatus)
		authenticated.POST("/events/:eventID/participate", eventHandler.HandleParticipate)
		authenticated.DELETE("/events/:eventID/participate", eventHandler.HandleLeave)
		authenticated.POST("/events/:eventID/donations", eventHandler.HandleDonate)

		authenticated.POST("/events/:eventID/applications", applicationHandler.HandleApply)
		authenticated.GET("/events/:eventID/applications", applicationHandler.HandleGetEventApplications)
		authenticated.GET("/applications", applicationHandler.HandleGetMyApplications)
		authenticated.PATCH("/applications/:applicationID/status", applicationHandler.HandleUpdateApplicationStatus)

		authenticated.POST("/events/:eventID/completions", completionHandler.HandleRequestCompletion)
		authenticated.GET("/events/:eventID/completions", completionHandler.HandleGetEventCompletions)
		authenticated.POST("/completions/:completionID/review", completionHandler.HandleReviewCompletion)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "VoluntHub API"
	docs.SwaggerInfo.Description = "Volunteering events with a reward ledger."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
