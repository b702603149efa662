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
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/cancel_lesson"
	createGroupLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/create_group_lesson"
	createIndividualLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/create_individual_lesson"
	createLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/create_lesson"
	createLessonRequestHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/create_lesson_request"
	deactivationHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/deactivation"
	getAvailableSlotsHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/get_available_slots"
	getLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/get_lesson"
	groupEnrollmentHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/group_enrollment"
	rescheduleLessonHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/reschedule_lesson"
	respondToRequestHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/respond_to_request"
	slotsHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/slots"
	subscriptionsHandler "github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/handlers/subscriptions"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/api/middleware"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/config"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
	slotRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/slot"
	subscriptionRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/subscription"
	notifierClient "github.com/nkotelnik/DanceSchool-SchedulingService/internal/integrations/notifier"
	deactivationService "github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/deactivation"
	enrollmentService "github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/enrollment"
	ledgerService "github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger"
	lessonsService "github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/lessons"
	timeslotsService "github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/timeslots"
	createGroupLessonUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_group_lesson"
	createIndividualLessonUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_individual_lesson"
	createLessonUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson"
	createLessonRequestUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/create_lesson_request"
	generateAvailabilityUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/generate_availability"
	rescheduleLessonUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/reschedule_lesson"
	respondToRequestUC "github.com/nkotelnik/DanceSchool-SchedulingService/internal/usecase/respond_to_request"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/dbmetrics"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/logger"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/metrics"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/simpletxmanager"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/txmanager"
)

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

	log.Info("Starting DanceSchool-SchedulingService...")

	// Часовой пояс школы: все wall-clock времена слотов считаются в нём
	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}
	log.Info("Business timezone: %s", location)

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

	// Применяем миграции
	if cfg.Database.RunMigrations {
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect: %v", err)
		}
		if err := goose.Up(db, cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)
	}

	// Клиент сервиса уведомлений
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		executor dbmetrics.DBExecutor = db
		txMgr    TxManager            = simpletxmanager.NewTransactionManager(db)
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	}

	lessonRepository := lessonRepo.NewRepository(executor)
	subscriptionRepository := subscriptionRepo.NewRepository(executor)
	slotRepository := slotRepo.NewRepository(executor)
	groupRepository := groupRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)

	// Инициализируем сервисы
	ledgerSvc := ledgerService.NewService(
		subscriptionRepository,
		lessonRepository,
		catalogRepository,
		groupRepository,
		txMgr,
		log,
	)
	lessonsSvc := lessonsService.NewService(
		lessonRepository,
		subscriptionRepository,
		txMgr,
		log,
	)
	timeslotsSvc := timeslotsService.NewService(
		slotRepository,
		catalogRepository,
		txMgr,
		log,
	)
	enrollmentSvc := enrollmentService.NewService(
		groupRepository,
		lessonRepository,
		subscriptionRepository,
		catalogRepository,
		txMgr,
		log,
	)
	deactivationSvc := deactivationService.NewService(
		lessonRepository,
		subscriptionRepository,
		groupRepository,
		catalogRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем use cases
	generateAvailabilityUseCase := generateAvailabilityUC.NewUseCase(
		slotRepository,
		lessonRepository,
		catalogRepository,
		location,
		log,
	)
	createLessonUseCase := createLessonUC.NewUseCase(
		lessonRepository,
		catalogRepository,
		groupRepository,
		txMgr,
		log,
	)
	createIndividualLessonUseCase := createIndividualLessonUC.NewUseCase(
		lessonRepository,
		catalogRepository,
		ledgerSvc,
		txMgr,
		log,
	)
	createGroupLessonUseCase := createGroupLessonUC.NewUseCase(
		lessonRepository,
		catalogRepository,
		groupRepository,
		txMgr,
		log,
	)
	createLessonRequestUseCase := createLessonRequestUC.NewUseCase(
		lessonRepository,
		slotRepository,
		catalogRepository,
		ledgerSvc,
		notifier,
		txMgr,
		location,
		log,
	)
	respondToRequestUseCase := respondToRequestUC.NewUseCase(
		lessonRepository,
		catalogRepository,
		notifier,
		txMgr,
		log,
	)
	rescheduleLessonUseCase := rescheduleLessonUC.NewUseCase(
		lessonRepository,
		subscriptionRepository,
		catalogRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(generateAvailabilityUseCase, log)
	createLesson := createLessonHandler.NewHandler(createLessonUseCase, log)
	createIndividualLesson := createIndividualLessonHandler.NewHandler(createIndividualLessonUseCase, log)
	createGroupLesson := createGroupLessonHandler.NewHandler(createGroupLessonUseCase, log)
	createLessonRequest := createLessonRequestHandler.NewHandler(createLessonRequestUseCase, log)
	respondToRequest := respondToRequestHandler.NewHandler(respondToRequestUseCase, log)
	rescheduleLesson := rescheduleLessonHandler.NewHandler(rescheduleLessonUseCase, log)
	cancelLesson := cancelLessonHandler.NewHandler(lessonsSvc, log)
	getLesson := getLessonHandler.NewHandler(lessonsSvc, log)
	slots := slotsHandler.NewHandler(timeslotsSvc, log)
	subscriptions := subscriptionsHandler.NewHandler(ledgerSvc, log)
	groupEnrollment := groupEnrollmentHandler.NewHandler(enrollmentSvc, log)
	deactivation := deactivationHandler.NewHandler(deactivationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix: все маршруты требуют заголовков X-Actor-Role и X-Actor-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log))

	// --- Расписание и доступность ---
	api.HandleFunc("/slots/search/available", getAvailableSlots.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots", slots.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId}", slots.HandleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/slots/{slotId}", slots.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/teachers/{teacherId}/slots", slots.HandleList).Methods(http.MethodGet)

	// --- Занятия ---
	api.HandleFunc("/lessons/individual", createIndividualLesson.Handle).Methods(http.MethodPost)
	api.HandleFunc("/lessons/group", createGroupLesson.Handle).Methods(http.MethodPost)
	api.HandleFunc("/lessons/request", createLessonRequest.Handle).Methods(http.MethodPost)
	api.HandleFunc("/lessons/request/{lessonId}", respondToRequest.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/lessons/{lessonId}/cancel", cancelLesson.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/lessons/{lessonId}", getLesson.Handle).Methods(http.MethodGet)

	// --- Абонементы ---
	api.HandleFunc("/subscriptions", subscriptions.HandlePurchase).Methods(http.MethodPost)
	api.HandleFunc("/subscriptions/{subscriptionId}/lessons/{lessonId}", subscriptions.HandleReserve).Methods(http.MethodPost)
	api.HandleFunc("/subscriptions/{subscriptionId}/lessons/{lessonId}/cancel", subscriptions.HandleRelease).Methods(http.MethodPatch)
	api.HandleFunc("/students/{studentId}/subscriptions", subscriptions.HandleList).Methods(http.MethodGet)

	// --- Группы ---
	api.HandleFunc("/groups/{groupId}/students/{studentId}", groupEnrollment.HandleEnroll).Methods(http.MethodPost)
	api.HandleFunc("/groups/{groupId}/students/{studentId}", groupEnrollment.HandleRemove).Methods(http.MethodDelete)

	// --- Администрирование ---
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin(log))
	admin.HandleFunc("/lessons", createLesson.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/lessons/{lessonId}/schedule", rescheduleLesson.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/teachers/{id}/deactivate", deactivation.HandleTeacher).Methods(http.MethodPatch)
	admin.HandleFunc("/students/{id}/deactivate", deactivation.HandleStudent).Methods(http.MethodPatch)
	admin.HandleFunc("/groups/{id}/deactivate", deactivation.HandleGroup).Methods(http.MethodPatch)
	admin.HandleFunc("/classrooms/{id}/deactivate", deactivation.HandleClassroom).Methods(http.MethodPatch)

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
