package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addServicesHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/add_services"
	bookAppointmentHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/get_appointment"
	getScheduleHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/get_schedule"
	getUtilizationHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/get_utilization"
	rescheduleAppointmentHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/reschedule_appointment"
	searchAvailabilityHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/search_availability"
	transitionAppointmentHandler "github.com/autobay/shop-scheduling-service/internal/api/handlers/transition_appointment"
	"github.com/autobay/shop-scheduling-service/internal/api/middleware"
	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/infra/cache"
	appointmentRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
	bayRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/bay"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	slotRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/slot"
	technicianRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/technician"
	customersClient "github.com/autobay/shop-scheduling-service/internal/integrations/customers"
	notifyClient "github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	analyticsService "github.com/autobay/shop-scheduling-service/internal/service/analytics"
	appointmentsService "github.com/autobay/shop-scheduling-service/internal/service/appointments"
	inventoryService "github.com/autobay/shop-scheduling-service/internal/service/inventory"
	reservationService "github.com/autobay/shop-scheduling-service/internal/service/reservation"
	techniciansService "github.com/autobay/shop-scheduling-service/internal/service/technicians"
	addServicesUC "github.com/autobay/shop-scheduling-service/internal/usecase/add_services"
	bookAppointmentUC "github.com/autobay/shop-scheduling-service/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/autobay/shop-scheduling-service/internal/usecase/cancel_appointment"
	rescheduleAppointmentUC "github.com/autobay/shop-scheduling-service/internal/usecase/reschedule_appointment"
	searchAvailabilityUC "github.com/autobay/shop-scheduling-service/internal/usecase/search_availability"
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
	"github.com/autobay/shop-scheduling-service/pkg/logger"
	"github.com/autobay/shop-scheduling-service/pkg/metrics"
	"github.com/autobay/shop-scheduling-service/pkg/simpletxmanager"
	"github.com/autobay/shop-scheduling-service/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting shop-scheduling-service...")

	hours := cfg.BusinessHours()
	bayRanking := cfg.BayTypeRanking()
	skillRanking := cfg.SkillRanking()

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// The cache is an accelerator, not a dependency: if redis is down the
	// service starts anyway and analytics computes every report directly.
	var analyticsCache analyticsService.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(context.Background(),
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		if err != nil {
			log.Warn("Redis unavailable, running without cache: %v", err)
		} else {
			defer redisCache.Close()
			analyticsCache = redisCache
			log.Info("Redis cache connected (addr=%s)", cfg.Redis.Addr)
		}
	}

	customers := customersClient.NewClient(
		cfg.Integrations.Customers.URL,
		time.Duration(cfg.Integrations.Customers.Timeout)*time.Second,
		log,
	)
	notify := notifyClient.NewClient(
		cfg.Integrations.Notify.URL,
		time.Duration(cfg.Integrations.Notify.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (customers=%s, notify=%s)",
		cfg.Integrations.Customers.URL, cfg.Integrations.Notify.URL)

	var (
		appointments *appointmentRepo.Repository
		bays         *bayRepo.Repository
		catalog      *catalogRepo.Repository
		slots        *slotRepo.Repository
		technicians  *technicianRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointments = appointmentRepo.NewRepository(wrappedDB)
		bays = bayRepo.NewRepository(wrappedDB)
		catalog = catalogRepo.NewRepository(wrappedDB)
		slots = slotRepo.NewRepository(wrappedDB)
		technicians = technicianRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointments = appointmentRepo.NewRepository(db)
		bays = bayRepo.NewRepository(db)
		catalog = catalogRepo.NewRepository(db)
		slots = slotRepo.NewRepository(db)
		technicians = technicianRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	reservationSvc := reservationService.NewService(slots, appointments, txMgr, hours.SlotGranularity, log)
	technicianSvc := techniciansService.NewService(technicians, appointments, skillRanking, log)
	inventorySvc := inventoryService.NewService(
		slots,
		bays,
		hours,
		cfg.Inventory.RollingWindowDays,
		cfg.Inventory.RetentionDays,
		inventoryService.RealTimeProvider{},
		log,
	)
	appointmentSvc := appointmentsService.NewService(
		appointments,
		hours.CheckoutBuffer,
		appointmentsService.RealTimeProvider{},
		log,
	)
	analyticsSvc := analyticsService.NewService(slots, bays, analyticsCache, log)

	searchAvailabilityUseCase := searchAvailabilityUC.NewUseCase(
		catalog, bays, slots, hours, bayRanking, skillRanking, log)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		catalog, appointments, reservationSvc, technicianSvc,
		customers, notify, hours, bayRanking, skillRanking, log)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointments, reservationSvc, notify, hours, log)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointments, reservationSvc, notify, log)
	addServicesUseCase := addServicesUC.NewUseCase(
		catalog, appointments, reservationSvc, hours, log)

	searchAvailability := searchAvailabilityHandler.NewHandler(searchAvailabilityUseCase, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	addServices := addServicesHandler.NewHandler(addServicesUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getSchedule := getScheduleHandler.NewHandler(appointmentSvc, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(appointmentSvc, log)
	getUtilization := getUtilizationHandler.NewHandler(analyticsSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/availability/search", searchAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/reference/{reference}", getAppointment.HandleByReference).Methods(http.MethodGet)

	// Protected routes (require X-Caller-ID header)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.HandleByID).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/services", addServices.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/status", transitionAppointment.Handle).Methods(http.MethodPatch)

	protected.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/analytics/utilization", getUtilization.Handle).Methods(http.MethodGet)

	// Slot inventory maintenance runs in the background for the whole
	// lifetime of the process.
	inventoryCtx, stopInventory := context.WithCancel(context.Background())
	defer stopInventory()

	interval := time.Duration(cfg.Inventory.RunIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	go inventorySvc.Run(inventoryCtx, interval)
	log.Info("Inventory maintenance started (window=%dd, retention=%dd, interval=%s)",
		cfg.Inventory.RollingWindowDays, cfg.Inventory.RetentionDays, interval)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopInventory()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
