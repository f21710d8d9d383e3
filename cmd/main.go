package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/create_reservation"
	getBookedSlotsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booked_slots"
	getCourtAvailabilityHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_court_availability"
	getReservationGroupHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_reservation_group"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/config"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	reservationRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/reservation"
	availabilityService "github.com/m04kA/SMC-CourtBooking/internal/service/availability"
	reservationLedger "github.com/m04kA/SMC-CourtBooking/internal/service/ledger"
	createReservationUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_reservation"
	getBookedSlotsUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_booked_slots"
	getCourtAvailabilityUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_court_availability"
	"github.com/m04kA/SMC-CourtBooking/internal/worker/expiry"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/keylock"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CourtBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	// Метрики (nil при выключенных, все методы записи nil-safe)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Одна обёртка для обоих режимов: без метрик она только прокидывает транзакцию из контекста
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxRetries(cfg.Ledger.MaxRetries),
		txmanager.WithBackoff(cfg.Ledger.Backoff()),
	)

	// Сервисы
	ledger := reservationLedger.NewLedger(
		reservationRepository,
		txMgr,
		keylock.New(),
		metricsCollector,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		reservationRepository,
		courtRepository,
		log,
	)

	// Use cases
	getBookedSlotsUseCase := getBookedSlotsUC.NewUseCase(availabilitySvc, log)
	getCourtAvailabilityUseCase := getCourtAvailabilityUC.NewUseCase(availabilitySvc, log)
	createReservationUseCase := createReservationUC.NewUseCase(courtRepository, ledger, log)

	// Handlers
	getBookedSlots := getBookedSlotsHandler.NewHandler(getBookedSlotsUseCase, log)
	getCourtAvailability := getCourtAvailabilityHandler.NewHandler(getCourtAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservationGroup := getReservationGroupHandler.NewHandler(ledger, log)
	confirmReservation := confirmReservationHandler.NewHandler(ledger, log)
	cancelReservation := cancelReservationHandler.NewHandler(ledger, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Занятые слоты площадки, путь сохранён для существующих клиентов
	r.HandleFunc("/api/venues/booked-slots", getBookedSlots.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность ---
	api.HandleFunc("/courts/{courtId}/availability", getCourtAvailability.Handle).Methods(http.MethodGet)

	// --- Резервирование (вызывается сервисом заказов) ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservation-groups/{groupId}", getReservationGroup.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservation-groups/{groupId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservation-groups/{groupId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Фоновая отмена неоплаченных броней
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var expiryWorker *expiry.Worker
	if cfg.Expiry.Enabled {
		expiryWorker = expiry.NewWorker(reservationRepository, ledger, metricsCollector, log, expiry.Config{
			TTL:       cfg.Expiry.TTL(),
			Interval:  cfg.Expiry.Interval(),
			BatchSize: cfg.Expiry.BatchSize,
		})
		if err := expiryWorker.Start(workerCtx); err != nil {
			log.Fatal("Failed to start expiry worker: %v", err)
		}
		log.Info("Expiry worker started (ttl=%s, interval=%s)", cfg.Expiry.TTL(), cfg.Expiry.Interval())
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if expiryWorker != nil {
		expiryWorker.Stop()
		log.Info("Expiry worker stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
