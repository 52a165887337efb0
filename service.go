package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passkey_mfa_ms/config"
	"passkey_mfa_ms/controller"
	"passkey_mfa_ms/middleware"
	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/services"

	"github.com/IBM/sarama"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	//DB
	dbConnection *gorm.DB

	//Redis Client
	redisClient *redis.Client

	//Kafka producer
	kafkaProducer sarama.SyncProducer

	//WebAuthn Conf
	webAuthn *webauthn.WebAuthn

	//Logger
	logger *zap.Logger

	// Repository
	employeeRepository repository.IEmployeeRepository
	passkeyRepository  repository.IPasskeyRepository

	// Service
	jwtService       services.IJWTService
	challengeService services.IChallengeService
	auditService     services.IAuditService
	passkeyService   services.IPasskeyService

	// Controller
	passkeyController controller.IPasskeyController
}

// NOTE: Service Start
func (s *service) Start() {
	log.Info("Opening database connection...")
	s.dbConnection = config.OpenDatabaseConnection(config.Conf.Application.Datasource.PrimaryURL)
	config.Migrate(config.Conf.Application.Datasource.PrimaryURL)

	log.Info("Opening redis connection...")
	s.redisClient = config.ConnectToRedis(config.Conf.Application.Redis.Host)

	log.Info("Connecting to kafka...")
	s.kafkaProducer = config.ConnectToKafka(config.Conf.Application.Kafka.Brokers)

	log.Info("WebAuthn config")
	s.webAuthn = config.InitWebAuthn()

	s.logger = config.InitLogger()

	middleware.InitValidator()

	// NOTE: Dependency Injections
	s.DependencyInjection()

	// NOTE: Start Fiber server...
	app := NewServer(s.passkeyController, s.jwtService, s.logger).Start()

	log.Info("Server starting..")
	go func() {
		if err := app.Listen(config.Conf.Application.Server.Port); err != nil {
			log.Fatal("Server failed to start")
		}
	}()

	// NOTE: Keep OS signals for graceful shutdown
	s.gracefulShutdown(app)
}

// NOTE: Depency Injection Operation
func (s *service) DependencyInjection() {
	s.jwtService = services.NewJWTService(
		[]byte(config.Conf.Application.Security.Secret),
		config.Conf.Application.Security.Issuer,
	)

	// NOTE: Repositories Injections
	s.employeeRepository = repository.NewEmployeeRepository()
	s.passkeyRepository = repository.NewPasskeyRepository()

	// NOTE: Services Injections
	s.challengeService = services.NewChallengeService(s.redisClient)
	s.auditService = services.NewAuditService(
		s.kafkaProducer,
		config.Conf.Application.Kafka.AuditTopic,
		s.logger,
	)
	s.passkeyService = services.NewPasskeyService(
		s.dbConnection,
		s.employeeRepository,
		s.passkeyRepository,
		s.webAuthn,
		services.NewCeremonyParser(),
		s.challengeService,
		s.auditService,
		s.logger,
	)

	// NOTE: Controllers Injections
	s.passkeyController = controller.NewPasskeyController(s.passkeyService)
}

// NOTE: Graceful shutdown operation
func (s *service) gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// NOTE: Shutdown Fiber server
	if err := app.Shutdown(); err != nil {
		log.Error("error while shutting down app", err)
	}

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			log.Error("error while closing kafka producer", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Error("error while closing redis client", err)
		}
	}

	// NOTE: Shutdown Database connection
	done := make(chan bool)
	go func() {
		config.CloseDatabaseConnection(s.dbConnection)
		done <- true
	}()

	select {
	case <-ctx.Done():
		log.Error("timeout while shutting down database", ctx.Err())
	case <-done:
		log.Info("database is gracefully shutdown")
	}
}
