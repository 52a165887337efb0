package main

import (
	"time"

	"passkey_mfa_ms/config"
	"passkey_mfa_ms/controller"
	"passkey_mfa_ms/dtos/request"
	"passkey_mfa_ms/middleware"
	"passkey_mfa_ms/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	PasskeyController controller.IPasskeyController
	JWTService        services.IJWTService
	Logger            *zap.Logger
}

// NOTE: Server Constructor
func NewServer(
	passkeyController controller.IPasskeyController,
	jwtService services.IJWTService,
	logger *zap.Logger,
) *Server {
	return &Server{
		PasskeyController: passkeyController,
		JWTService:        jwtService,
		Logger:            logger,
	}
}

// NOTE: Start Fiber Server
func (s *Server) Start() *fiber.App {
	app := fiber.New()

	app.Use(middleware.RecoveryMiddleware(s.Logger))
	app.Use(middleware.LoggingMiddleware(s.Logger))
	app.Use(middleware.GlobalRateLimiter())

	// NOTE: Define API paths (context path and grouping by version)
	contextPath := app.Group(config.Conf.Application.Server.ContextPath)
	apiVersion := contextPath.Group(config.Conf.Application.Server.ApiVersion)

	// Pre-authentication MFA step of the login flow. Rate limited, the
	// only identifier the caller holds at this point is an email.
	mfaGroup := apiVersion.Group("/auth/passkey", middleware.RouteRateLimiter(10, time.Minute))
	mfaGroup.Post("/login/start", middleware.ValidateBody[request.StartPasskeyLoginRequest](), s.PasskeyController.LoginStart)
	mfaGroup.Post("/login/finish", s.PasskeyController.LoginFinish)

	// Passkey management for an authenticated employee.
	passkeyGroup := apiVersion.Group("/passkeys", middleware.AuthMiddleware(s.JWTService))
	passkeyGroup.Get("/", s.PasskeyController.List)
	passkeyGroup.Get("/status", s.PasskeyController.Status)
	passkeyGroup.Post("/register/start", middleware.ValidateBody[request.StartPasskeyRegistrationRequest](), s.PasskeyController.RegisterStart)
	passkeyGroup.Post("/register/finish", s.PasskeyController.RegisterFinish)
	passkeyGroup.Patch("/:passkeyId/label", middleware.ValidateBody[request.RenamePasskeyRequest](), s.PasskeyController.Rename)
	passkeyGroup.Post("/:passkeyId/deactivate", s.PasskeyController.Deactivate)
	passkeyGroup.Delete("/:passkeyId", s.PasskeyController.Delete)

	return app
}
