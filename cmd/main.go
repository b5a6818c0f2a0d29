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

	capturePaymentHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/capture_payment"
	createBookingHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/get_booking"
	getChurchBookingsHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/get_church_bookings"
	getUserBookingsHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/get_user_bookings"
	transitionBookingHandler "github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers/transition_booking"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/middleware"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/config"
	"github.com/marllouie99/DioceseIligan-BookingService/internal/infra/notify"
	apptRepo "github.com/marllouie99/DioceseIligan-BookingService/internal/infra/storage/appointment"
	availabilityClient "github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/availability"
	catalogClient "github.com/marllouie99/DioceseIligan-BookingService/internal/integrations/servicecatalog"
	appointmentsService "github.com/marllouie99/DioceseIligan-BookingService/internal/service/appointments"
	conflictsService "github.com/marllouie99/DioceseIligan-BookingService/internal/service/conflicts"
	capturePaymentUC "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/capture_payment"
	createBookingUC "github.com/marllouie99/DioceseIligan-BookingService/internal/usecase/create_booking"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/dbmetrics"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/logger"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/metrics"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/simpletxmanager"
	"github.com/marllouie99/DioceseIligan-BookingService/pkg/txmanager"
)

// Notifier публикует доменные события записей
type Notifier interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting DioceseIligan-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	availability := availabilityClient.NewClient(
		cfg.Availability.URL,
		time.Duration(cfg.Availability.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ServiceCatalog=%s timeout=%ds, Availability=%s timeout=%ds)",
		cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Availability.URL, cfg.Availability.Timeout)

	// Инициализируем publisher событий
	var notifier Notifier
	if cfg.Notifications.Enabled {
		publisher, err := notify.NewPublisher(cfg.Notifications.URL, cfg.Notifications.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer publisher.Close()
		notifier = publisher
		log.Info("Event publisher connected (exchange=%s)", cfg.Notifications.Exchange)
	} else {
		notifier = notify.NewNoop()
		log.Info("Notifications disabled, events will be dropped")
	}

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозиторий (с метриками или без)
	var (
		appointmentRepository *apptRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = apptRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = apptRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	conflictsSvc := conflictsService.NewService(appointmentRepository, log)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, notifier, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		catalog,
		availability,
		txMgr,
		log,
	)

	capturePaymentUseCase := capturePaymentUC.NewUseCase(
		appointmentRepository,
		conflictsSvc,
		catalog,
		txMgr,
		notifier,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	capturePayment := capturePaymentHandler.NewHandler(capturePaymentUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(appointmentsSvc, log)
	getBooking := getBookingHandler.NewHandler(appointmentsSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(appointmentsSvc, log)
	getChurchBookings := getChurchBookingsHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Callback платёжного шлюза (аутентифицируется подписью шлюза на уровне gateway)
	api.HandleFunc("/appointments/{bookingId}/payment", capturePayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Переход статуса записи (review/approve/decline/complete/cancel)
	protected.HandleFunc("/appointments/{bookingId}/transition", transitionBooking.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление церковью (для сотрудников) ---
	// Список записей церкви
	protected.HandleFunc("/churches/{churchId}/appointments", getChurchBookings.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
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
