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
	"github.com/redis/go-redis/v9"

	cancelPaymentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/cancel_payment"
	capturePaymentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/capture_payment"
	createTemplateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_template"
	deleteTemplateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/delete_template"
	getAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_availability"
	getConsultationHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_consultation"
	getDashboardHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_dashboard"
	getPaymentEventsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_payment_events"
	getTemplateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_template"
	listConsultationsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/list_consultations"
	listTemplatesHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/list_templates"
	quoteSelectionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/quote_selection"
	releaseReservationsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/release_reservations"
	reserveBookingHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/reserve_booking"
	retryPaymentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/retry_payment"
	setTemplateActiveHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/set_template_active"
	stripeWebhookHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/stripe_webhook"
	updateConsultationStatusHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_consultation_status"
	updateTemplateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_template"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	intakeRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/intake"
	paymentEventRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/payment_event"
	reservationRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/reservation"
	templateRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/template"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/mailer"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/stripepay"
	"github.com/m04kA/SMC-ConsultationService/internal/reconcile"
	consultationsService "github.com/m04kA/SMC-ConsultationService/internal/service/consultations"
	templatesService "github.com/m04kA/SMC-ConsultationService/internal/service/templates"
	cancelPaymentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_payment"
	capturePaymentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/capture_payment"
	quoteSelectionUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/quote_selection"
	reserveBookingUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/reserve_booking"
	resolveInstancesUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/resolve_instances"
	retryPaymentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/retry_payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
)

// txManager общий интерфейс txmanager и simpletxmanager
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType string, intakeID int64, payload interface{}) error
	Close() error
}

type notifier interface {
	SendBookingConfirmation(ctx context.Context, confirmation mailer.Confirmation) (string, error)
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

	log.Info("Starting SMC-ConsultationService...")

	// Инициализируем метрики (если включены)
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    txManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	templateRepository := templateRepo.NewRepository(executor)
	reservationRepository := reservationRepo.NewRepository(executor)
	intakeRepository := intakeRepo.NewRepository(executor)
	paymentEventRepository := paymentEventRepo.NewRepository(executor)

	// Инициализируем интеграционных клиентов
	stripeClient := stripepay.NewClient(stripepay.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
		APIURL:        cfg.Stripe.APIURL,
		Timeout:       time.Duration(cfg.Stripe.Timeout) * time.Second,
	}, log)
	if cfg.Stripe.SecretKey == "" {
		log.Warn("Stripe secret key is not set, payment handoff will fail until configured")
	}

	var mailClient notifier
	if cfg.Mailer.APIKey != "" {
		mailClient = mailer.NewClient(cfg.Mailer.URL, cfg.Mailer.APIKey, cfg.Mailer.From,
			time.Duration(cfg.Mailer.Timeout)*time.Second, log)
		log.Info("Mailer initialized (url=%s)", cfg.Mailer.URL)
	} else {
		mailClient = mailer.NewNopClient(log)
		log.Warn("Mailer API key is not set, confirmations will only be logged")
	}

	var publisher eventPublisher = events.NopPublisher{}
	if brokers := events.SplitBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		publisher = events.NewPublisher(brokers, cfg.Kafka.Topic, log)
		log.Info("Kafka publisher initialized (brokers=%v, topic=%s)", brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Инициализируем use cases
	resolveInstancesUseCase := resolveInstancesUC.NewUseCase(templateRepository, reservationRepository, log)
	quoteSelectionUseCase := quoteSelectionUC.NewUseCase(resolveInstancesUseCase, log)
	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		resolveInstancesUseCase,
		intakeRepository,
		reservationRepository,
		paymentEventRepository,
		stripeClient,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	capturePaymentUseCase := capturePaymentUC.NewUseCase(
		intakeRepository,
		reservationRepository,
		paymentEventRepository,
		stripeClient,
		mailClient,
		publisher,
		metricsCollector,
		log,
	)
	cancelPaymentUseCase := cancelPaymentUC.NewUseCase(intakeRepository, paymentEventRepository, log)
	retryPaymentUseCase := retryPaymentUC.NewUseCase(
		intakeRepository,
		reservationRepository,
		paymentEventRepository,
		stripeClient,
		log,
	)

	// Инициализируем сервисы
	templatesSvc := templatesService.NewService(templateRepository, log)
	consultationsSvc := consultationsService.NewService(
		intakeRepository,
		reservationRepository,
		paymentEventRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(resolveInstancesUseCase, log)
	quoteSelection := quoteSelectionHandler.NewHandler(quoteSelectionUseCase, log)
	reserveBooking := reserveBookingHandler.NewHandler(reserveBookingUseCase, log)
	capturePayment := capturePaymentHandler.NewHandler(capturePaymentUseCase, log)
	cancelPayment := cancelPaymentHandler.NewHandler(cancelPaymentUseCase, log)
	retryPayment := retryPaymentHandler.NewHandler(retryPaymentUseCase, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(stripeClient, paymentEventRepository, capturePaymentUseCase, log)

	listTemplates := listTemplatesHandler.NewHandler(templatesSvc, log)
	createTemplate := createTemplateHandler.NewHandler(templatesSvc, log)
	getTemplate := getTemplateHandler.NewHandler(templatesSvc, log)
	updateTemplate := updateTemplateHandler.NewHandler(templatesSvc, log)
	setTemplateActive := setTemplateActiveHandler.NewHandler(templatesSvc, log)
	deleteTemplate := deleteTemplateHandler.NewHandler(templatesSvc, log)

	getDashboard := getDashboardHandler.NewHandler(consultationsSvc, log)
	listConsultations := listConsultationsHandler.NewHandler(consultationsSvc, log)
	getConsultation := getConsultationHandler.NewHandler(consultationsSvc, log)
	updateConsultationStatus := updateConsultationStatusHandler.NewHandler(consultationsSvc, log)
	getPaymentEvents := getPaymentEventsHandler.NewHandler(consultationsSvc, log)
	releaseReservations := releaseReservationsHandler.NewHandler(consultationsSvc, log)

	// Лимитер запросов: Redis для нескольких экземпляров, иначе в памяти
	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration(), "consultation:rl")
		log.Info("Redis rate limiter initialized (addr=%s)", cfg.Redis.Addr)
	} else {
		limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration())
		log.Info("In-memory rate limiter initialized")
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/selections/quote", quoteSelection.Handle).Methods(http.MethodPost)

	// Вебхук проверяется подписью, лимит не применяем: Stripe повторяет доставку
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// --- Бронирование и оплата (с лимитом запросов) ---
	limited := api.NewRoute().Subrouter()
	if cfg.RateLimit.Enabled {
		limited.Use(middleware.RateLimit(limiter, cfg.RateLimit.FailOpen, log))
	}

	limited.HandleFunc("/bookings", reserveBooking.Handle).Methods(http.MethodPost)
	limited.HandleFunc("/bookings/{intakeId}/capture", capturePayment.Handle).Methods(http.MethodPost)
	limited.HandleFunc("/bookings/{intakeId}/cancel", cancelPayment.Handle).Methods(http.MethodPost)
	limited.HandleFunc("/bookings/{intakeId}/retry-payment", retryPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// OPERATOR ROUTES (Authorization: Bearer <jwt>)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OperatorAuth(middleware.OperatorAuthConfig{
		Secret: cfg.OperatorAuth.JWTSecret,
		Issuer: cfg.OperatorAuth.Issuer,
	}, log))

	// --- Шаблоны доступности ---
	admin.HandleFunc("/templates", listTemplates.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/templates", createTemplate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/templates/{templateId}", getTemplate.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/templates/{templateId}", updateTemplate.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/templates/{templateId}", deleteTemplate.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/templates/{templateId}/active", setTemplateActive.Handle).Methods(http.MethodPatch)

	// --- Записи на консультацию ---
	admin.HandleFunc("/dashboard", getDashboard.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/consultations", listConsultations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/consultations/{intakeId}", getConsultation.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/consultations/{intakeId}/status", updateConsultationStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/consultations/{intakeId}/payment-events", getPaymentEvents.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/consultations/{intakeId}/release", releaseReservations.Handle).Methods(http.MethodPost)

	// Фоновая сверка неподтверждённых оплат
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.Reconciler.Enabled {
		reconciler := reconcile.NewReconciler(
			intakeRepository,
			stripeClient,
			capturePaymentUseCase,
			reconcile.Config{
				Interval:  cfg.Reconciler.IntervalDuration(),
				MinAge:    cfg.Reconciler.MinAgeDuration(),
				BatchSize: cfg.Reconciler.BatchSize,
			},
			log,
		)
		go reconciler.Run(workerCtx)
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopWorkers()

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
