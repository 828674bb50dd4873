package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/auth"
	"tta-backend/internal/cache"
	"tta-backend/internal/config"
	"tta-backend/internal/database"
	"tta-backend/internal/db"
	"tta-backend/internal/handlers"
	"tta-backend/internal/health"
	h "tta-backend/internal/http"
	"tta-backend/internal/middleware"
	"tta-backend/internal/monitoring"
	"tta-backend/internal/repositories"
	"tta-backend/internal/services"
	"tta-backend/internal/storage"
	"tta-backend/internal/wizard"
	"tta-backend/migrations"
)

type stores struct {
	users     repositories.UserStore
	loginLogs repositories.LoginLogStore
	profiles  repositories.ProfileStore
	totp      repositories.TOTPStore
	reps      repositories.REPStore
	trials    repositories.TrialStore
	cities    repositories.TrialCityStore
	vendors   repositories.VendorStore
	sequences repositories.SequenceStore
	payments  repositories.TierPaymentStore
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		users:     repositories.NewUserRepository(pool),
		loginLogs: repositories.NewLoginLogRepository(pool),
		profiles:  repositories.NewProfileRepository(pool),
		totp:      repositories.NewTOTPRepository(pool),
		reps:      repositories.NewREPRepository(pool),
		trials:    repositories.NewTrialRepository(pool),
		cities:    repositories.NewTrialCityRepository(pool),
		vendors:   repositories.NewVendorRepository(pool),
		sequences: repositories.NewSequenceRepository(pool),
		payments:  repositories.NewTierPaymentRepository(pool),
	}
}

func memoryStores() stores {
	return stores{
		users:     repositories.NewMemoryUserStore(),
		loginLogs: repositories.NewMemoryLoginLogStore(),
		profiles:  repositories.NewMemoryProfileStore(),
		totp:      repositories.NewMemoryTOTPStore(),
		reps:      repositories.NewMemoryREPStore(),
		trials:    repositories.NewMemoryTrialStore(),
		cities:    repositories.NewMemoryTrialCityStore(),
		vendors:   repositories.NewMemoryVendorStore(),
		sequences: repositories.NewMemorySequenceStore(),
		payments:  repositories.NewMemoryTierPaymentStore(),
	}
}

func main() {
	mode := flag.String("mode", "postgres", "Storage mode: postgres or memory")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	var pool *pgxpool.Pool
	var st stores

	switch *mode {
	case "memory":
		log.Println("Running with in-memory storage, data is lost on restart")
		st = memoryStores()
	case "postgres":
		var err error
		pool, err = db.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		migrator := database.NewMigrator(pool, migrations.Files)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrator.RunMigrations(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to run migrations: %v", err)
		}
		cancel()

		st = postgresStores(pool)
	default:
		log.Fatalf("Unknown mode %q (want postgres or memory)", *mode)
	}

	// Redis is optional; login falls back to bcrypt-only checks
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	jwtManager := auth.NewJWTManager(cfg)
	r2Client := storage.NewR2Client(cfg)

	// Services
	codeService := services.NewCodeService(st.sequences)
	repService := services.NewREPService(st.reps)
	trialCityService := services.NewTrialCityService(st.cities, codeService)
	trialService := services.NewTrialService(st.trials, st.cities, codeService, repService)
	vendorService := services.NewVendorService(st.vendors, st.reps)
	userService := services.NewUserService(st.users, st.loginLogs, st.profiles, jwtManager)
	totpService := services.NewTOTPService(st.users, st.totp)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret,
		st.payments,
		st.trials,
		st.reps,
	)
	reportService := services.NewReportService(trialService, repService, trialCityService, st.payments)

	// Adopt code sequences issued before the counter table existed so
	// the next issued code never collides with an old one
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if cities, err := st.cities.List(seedCtx); err != nil {
		log.Printf("[Codes] Could not list trial cities for seeding: %v", err)
	} else if trials, err := st.trials.List(seedCtx); err != nil {
		log.Printf("[Codes] Could not list trials for seeding: %v", err)
	} else if err := codeService.SeedFromExisting(seedCtx, cities, trials); err != nil {
		log.Printf("[Codes] Sequence seeding failed: %v", err)
	}
	seedCancel()

	// Wizard drafts live in memory with a sliding TTL
	wizardStore := wizard.NewStore(wizard.DefaultDraftTTL)
	defer wizardStore.Close()

	// Monitoring: stats collection, health watcher, alert websocket
	monitor := monitoring.NewMonitor(pool)
	monitor.Start()
	defer monitor.Close()

	healthChecker := health.NewHealthChecker(pool)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, st.users)
	corsMiddleware := middleware.NewCORS(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, r2Client)
	totpHandler := handlers.NewTOTPHandler(totpService, userService, jwtManager)
	repHandler := handlers.NewREPHandler(repService, r2Client)
	trialHandler := handlers.NewTrialHandler(trialService)
	wizardHandler := handlers.NewWizardHandler(wizardStore, trialService)
	trialCityHandler := handlers.NewTrialCityHandler(trialCityService)
	vendorHandler := handlers.NewVendorHandler(vendorService)
	reportHandler := handlers.NewReportHandler(reportService)
	paymentHandler := handlers.NewPaymentHandler(razorpayService)
	monitoringHandler := handlers.NewMonitoringHandler(monitor)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		totpHandler,
		repHandler,
		trialHandler,
		wizardHandler,
		trialCityHandler,
		vendorHandler,
		reportHandler,
		paymentHandler,
		monitoringHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(corsMiddleware(router))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on %s (mode: %s)", server.Addr, *mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
