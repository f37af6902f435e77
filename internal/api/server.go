package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/lbonnet/formatrack-api/docs"
	v1 "github.com/lbonnet/formatrack-api/internal/api/handler/v1"
	"github.com/lbonnet/formatrack-api/internal/api/middleware"
	"github.com/lbonnet/formatrack-api/internal/config"
	"github.com/lbonnet/formatrack-api/internal/pkg/certificate"
	"github.com/lbonnet/formatrack-api/internal/repository"
	"github.com/lbonnet/formatrack-api/internal/repository/dao"
	"github.com/lbonnet/formatrack-api/internal/service"
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

	uSvc := s.initUserService(db)
	feedHandler := v1.NewPlanningFeedHandler(uSvc)
	go feedHandler.Run()

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(uSvc)
	planningHandler := s.initPlanningHandler(db, uSvc, feedHandler)
	presenceHandler := s.initPresenceHandler(db, uSvc)
	rosterHandler := s.initRosterHandler(db)
	attestationHandler := s.initAttestationHandler(db, uSvc)
	verificationHandler := s.initVerificationHandler(db)
	s.MountHandlers(authHandler, userHandler, planningHandler, presenceHandler, rosterHandler, attestationHandler, verificationHandler, feedHandler)

	return s
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initPlanningHandler(db *gorm.DB, uSvc *service.UserService, feed *v1.PlanningFeedHandler) *v1.PlanningHandler {
	planningDAO := dao.NewPlanningDAO(db)
	repo := repository.NewPlanningRepository(planningDAO)
	svc := service.NewPlanningService(repo, feed)
	handler := v1.NewPlanningHandler(svc, uSvc)

	return handler
}

func (s *Server) initPresenceHandler(db *gorm.DB, uSvc *service.UserService) *v1.PresenceHandler {
	planningRepo := repository.NewPlanningRepository(dao.NewPlanningDAO(db))
	rosterRepo := repository.NewCertificationRepository(dao.NewCertificationDAO(db))
	svc := service.NewPresenceService(planningRepo, rosterRepo)
	handler := v1.NewPresenceHandler(svc, uSvc)

	return handler
}

func (s *Server) initRosterHandler(db *gorm.DB) *v1.RosterHandler {
	certRepo := repository.NewCertificationRepository(dao.NewCertificationDAO(db))
	planningRepo := repository.NewPlanningRepository(dao.NewPlanningDAO(db))
	svc := service.NewRosterService(certRepo, planningRepo)
	handler := v1.NewRosterHandler(svc)

	return handler
}

func (s *Server) initAttestationHandler(db *gorm.DB, uSvc *service.UserService) *v1.AttestationHandler {
	certRepo := repository.NewCertificationRepository(dao.NewCertificationDAO(db))
	planningRepo := repository.NewPlanningRepository(dao.NewPlanningDAO(db))
	renderer := certificate.NewRenderer(s.Config.Certificate.Organisme)
	svc := service.NewCertificationService(certRepo, planningRepo, renderer, s.Config.Certificate)
	handler := v1.NewAttestationHandler(svc, uSvc)

	return handler
}

func (s *Server) initVerificationHandler(db *gorm.DB) *v1.VerificationHandler {
	certRepo := repository.NewCertificationRepository(dao.NewCertificationDAO(db))
	planningRepo := repository.NewPlanningRepository(dao.NewPlanningDAO(db))
	svc := service.NewVerificationService(certRepo, planningRepo)
	handler := v1.NewVerificationHandler(svc)

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
	planningHandler *v1.PlanningHandler,
	presenceHandler *v1.PresenceHandler,
	rosterHandler *v1.RosterHandler,
	attestationHandler *v1.AttestationHandler,
	verificationHandler *v1.VerificationHandler,
	feedHandler *v1.PlanningFeedHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		protected.GET("/users/:userID", userHandler.HandleGetUser)
		protected.GET("/users/formateurs/list", userHandler.HandleListFormateurs)

		protected.GET("/formations", planningHandler.HandleListFormations)
		protected.POST("/formations", planningHandler.HandleCreateFormation)
		protected.GET("/formations/:formationID", planningHandler.HandleGetFormation)
		protected.GET("/formations/:formationID/dates", planningHandler.HandleSchedulableDates)
		protected.GET("/formations/:formationID/seances", planningHandler.HandleListSeances)
		protected.POST("/formations/:formationID/seances", planningHandler.HandleCreateSeance)
		protected.PUT("/seances/:seanceID", planningHandler.HandleRescheduleSeance)
		protected.PATCH("/seances/:seanceID/status", planningHandler.HandleSetSeanceStatus)
		protected.DELETE("/seances/:seanceID", planningHandler.HandleDeleteSeance)

		protected.GET("/seances/:seanceID/presences", presenceHandler.HandleAttendanceSheet)
		protected.PUT("/seances/:seanceID/presences", presenceHandler.HandleMarkPresence)

		protected.POST("/participants", rosterHandler.HandleCreateParticipant)
		protected.POST("/formations/:formationID/inscriptions", rosterHandler.HandleEnroll)
		protected.PATCH("/inscriptions/:inscriptionID/status", rosterHandler.HandleUpdateEnrollmentStatus)

		protected.GET("/formations/:formationID/attestations", attestationHandler.HandleListAttestations)
		protected.GET("/formations/:formationID/attestations/pending", attestationHandler.HandlePendingAttestations)
		protected.POST("/formations/:formationID/attestations/generate", attestationHandler.HandleGenerateAttestations)
		protected.GET("/formations/:formationID/attestations/export", attestationHandler.HandleExportAttestations)
		protected.GET("/attestations/:attestationID/document", attestationHandler.HandleAttestationDocument)

		protected.GET("/planning/feed", feedHandler.HandleFeed)
	}

	// Public certificate verification, the page behind the QR code.
	s.Router.GET("/verify/:token", verificationHandler.HandleVerify)

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "FormaTrack API"
	docs.SwaggerInfo.Description = "Training-session scheduling and certification API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
