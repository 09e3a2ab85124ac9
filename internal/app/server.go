// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/config"
	"activity-booking-service/internal/db"
	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/domain/staff"
	"activity-booking-service/internal/events"
	activityHandler "activity-booking-service/internal/handlers/activity"
	agencyHandler "activity-booking-service/internal/handlers/agency"
	agentHandler "activity-booking-service/internal/handlers/agent"
	authHandler "activity-booking-service/internal/handlers/auth"
	bookingHandler "activity-booking-service/internal/handlers/booking"
	healthHandler "activity-booking-service/internal/handlers/health"
	staffHandler "activity-booking-service/internal/handlers/staff"
	wsHandler "activity-booking-service/internal/handlers/websocket"
	"activity-booking-service/internal/middleware"
	"activity-booking-service/internal/pkg/jwt"
	"activity-booking-service/internal/pkg/session"
	"activity-booking-service/internal/pkg/validation"
	"activity-booking-service/internal/repository/memory"
	"activity-booking-service/internal/repository/postgres"
	"activity-booking-service/internal/seed"
	activitysvc "activity-booking-service/internal/service/activity"
	agencysvc "activity-booking-service/internal/service/agency"
	agentsvc "activity-booking-service/internal/service/agent"
	authUsecase "activity-booking-service/internal/service/auth"
	availabilitysvc "activity-booking-service/internal/service/availability"
	bookingsvc "activity-booking-service/internal/service/booking"
	peoplesvc "activity-booking-service/internal/service/people"
	staffsvc "activity-booking-service/internal/service/staff"
	"activity-booking-service/internal/websocket"
	wsHandlers "activity-booking-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Repositories is one storage backend.
type Repositories struct {
	Agencies   agency.Repository
	Agents     agent.Repository
	Staff      staff.Repository
	Activities activity.Repository
	Bookings   booking.Repository
}

// MemoryRepositories builds every repository on one fresh in-memory store.
func MemoryRepositories() Repositories {
	store := memory.NewStore()
	return Repositories{
		Agencies:   memory.NewAgencyRepository(store),
		Agents:     memory.NewAgentRepository(store),
		Staff:      memory.NewStaffRepository(store),
		Activities: memory.NewActivityRepository(store),
		Bookings:   memory.NewBookingRepository(store),
	}
}

// PostgresRepositories builds every repository on one pool.
func PostgresRepositories(database *postgres.DB) Repositories {
	return Repositories{
		Agencies:   postgres.NewAgencyRepository(database),
		Agents:     postgres.NewAgentRepository(database),
		Staff:      postgres.NewStaffRepository(database),
		Activities: postgres.NewActivityRepository(database),
		Bookings:   postgres.NewBookingRepository(database),
	}
}

type Services struct {
	Agency       *agencysvc.AgencyService
	Agent        *agentsvc.AgentService
	Staff        *staffsvc.StaffService
	Activity     *activitysvc.ActivityService
	Availability *availabilitysvc.AvailabilityService
	Booking      *bookingsvc.BookingService
}

func NewServices(repos Repositories, slotCache cache.Availability, publisher events.Publisher, logger *zap.Logger) *Services {
	return &Services{
		Agency:       agencysvc.NewAgencyService(repos.Agencies, logger),
		Agent:        agentsvc.NewAgentService(repos.Agents, peoplesvc.NewGuard(repos.Agents, repos.Agencies), logger),
		Staff:        staffsvc.NewStaffService(repos.Staff, peoplesvc.NewGuard(repos.Staff, repos.Agencies), logger),
		Activity:     activitysvc.NewActivityService(repos.Activities, slotCache, logger),
		Availability: availabilitysvc.NewAvailabilityService(repos.Activities, repos.Bookings, slotCache, logger),
		Booking:      bookingsvc.NewBookingService(repos.Bookings, repos.Activities, repos.Agents, slotCache, publisher, logger),
	}
}

// Seeder exposes the services the fixture loader writes through.
func (s *Services) Seeder() seed.Services {
	return seed.Services{
		Agencies:   s.Agency,
		Agents:     s.Agent,
		Staff:      s.Staff,
		Activities: s.Activity,
		Bookings:   s.Booking,
	}
}

// NewHandlers builds the HTTP layer. authService may be nil, which leaves
// every route open and the auth routes unregistered.
func NewHandlers(svc *Services, authService *authUsecase.AuthService, hub *websocket.Hub, cfg config.AppConfig, logger *zap.Logger) *Handlers {
	h := &Handlers{
		HealthHandler:   healthHandler.NewHealthHandler(cfg.StoreDriver, hub),
		AgencyHandler:   agencyHandler.NewAgencyHandler(svc.Agency),
		AgentHandler:    agentHandler.NewAgentHandler(svc.Agent),
		StaffHandler:    staffHandler.NewStaffHandler(svc.Staff),
		ActivityHandler: activityHandler.NewActivityHandler(svc.Activity, svc.Availability),
		BookingHandler:  bookingHandler.NewBookingHandler(svc.Booking),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(nil),
	}
	if authService != nil {
		h.AuthHandler = authHandler.NewAuthHandler(authService, logger)
		h.AuthMiddleware = middleware.NewAuthMiddleware(authService)
	}
	return h
}

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	closers []func()
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires the service, serves HTTP and shuts down gracefully when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	defer s.close()
	validation.Register()

	// ----- Storage -----
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}

	// ----- Redis (optional) -----
	var slotCache cache.Availability = cache.Nop{}
	var sessions interface {
		session.Revoker
		session.LoginLimiter
	} = session.NewMemoryStore()

	if s.cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func() { redisClient.Close() })
		slotCache = cache.NewRedisAvailability(redisClient, s.cfg.AvailabilityCacheTTL)
		sessions = session.NewRedisStore(redisClient)
		s.logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
	}

	// ----- Auth (optional) -----
	var authService *authUsecase.AuthService
	var hubValidator websocket.TokenValidator
	if s.cfg.JWT.Enabled() {
		jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
		if err != nil {
			return fmt.Errorf("failed to load JWT manager: %w", err)
		}
		if s.cfg.AdminPasswordHash == "" {
			s.logger.Warn("ADMIN_PASSWORD_HASH not set, admin login will always fail")
		}
		authService = authUsecase.NewAuthService(
			authUsecase.AdminCredentials{Email: s.cfg.AdminEmail, PasswordHash: s.cfg.AdminPasswordHash},
			jwtManager,
			sessions,
			sessions,
			s.logger,
		)
		hubValidator = authService
	} else {
		s.logger.Warn("JWT keys not configured, authentication disabled")
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(hubValidator, s.logger)
	go hub.Run(ctx)

	// ----- Booking events -----
	publisher := events.Multi{hub}
	if s.cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(s.cfg.AMQPURL, s.cfg.AMQPQueue, s.logger)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func() { amqpPublisher.Close() })
		publisher = append(publisher, amqpPublisher)
	}

	// ----- Services -----
	services := NewServices(repos, slotCache, publisher, s.logger)
	hub.RegisterHandler(wsHandlers.NewAvailabilityHandler(services.Availability))

	if s.cfg.SeedFile != "" {
		if _, err := seed.NewLoader(services.Seeder(), s.logger).LoadFile(ctx, s.cfg.SeedFile); err != nil {
			return err
		}
	}

	// ----- Router -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)
	SetupRouter(s.engine, s.logger, NewHandlers(services, authService, hub, s.cfg, s.logger))

	return s.serve(ctx)
}

func (s *Server) repositories(ctx context.Context) (Repositories, error) {
	switch s.cfg.StoreDriver {
	case config.StoreMemory:
		return MemoryRepositories(), nil

	case config.StorePostgres:
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return Repositories{}, err
		}
		s.closers = append(s.closers, pool.Close)

		database := postgres.NewDB(pool)
		if err := database.Migrate(ctx); err != nil {
			return Repositories{}, err
		}
		s.logger.Info("postgres connected")
		return PostgresRepositories(database), nil

	default:
		return Repositories{}, fmt.Errorf("unknown STORE_DRIVER %q", s.cfg.StoreDriver)
	}
}

func (s *Server) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", s.cfg.HTTPAddr),
			zap.String("store", s.cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// close releases connections in reverse order of opening.
func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
