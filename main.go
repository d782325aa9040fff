package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"desaku_backend/internals/configs"
	database "desaku_backend/internals/databases"
	assetRepo "desaku_backend/internals/features/assets/repository"
	assetScheduler "desaku_backend/internals/features/assets/scheduler"
	assetService "desaku_backend/internals/features/assets/service"
	dashService "desaku_backend/internals/features/dashboard/service"
	docRepo "desaku_backend/internals/features/documents/repository"
	docService "desaku_backend/internals/features/documents/service"
	finRepo "desaku_backend/internals/features/finance/transactions/repository"
	finService "desaku_backend/internals/features/finance/transactions/service"
	notifRepo "desaku_backend/internals/features/notifications/repository"
	notif "desaku_backend/internals/features/notifications/service"
	authScheduler "desaku_backend/internals/features/users/auth/scheduler"
	authService "desaku_backend/internals/features/users/auth/service"
	"desaku_backend/internals/helpers/dbtime"
	"desaku_backend/internals/helpers/storage"
	middlewares "desaku_backend/internals/middlewares"
	loggerMw "desaku_backend/internals/middlewares/logger"
	routes "desaku_backend/internals/route"
	"desaku_backend/internals/seeds"
)

func main() {
	cfg := configs.LoadEnv()

	log := configs.NewLogger(cfg.Mode)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               10 * 1024 * 1024,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestContext(5 * time.Second))
	app.Use(loggerMw.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.GlobalRateLimiter())

	// 🔌 DB connect + pool + migrasi + seed
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatal("DB connect", zap.Error(err))
	}
	database.TunePool(db)
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("auto migrate", zap.Error(err))
	}
	seeds.RunAllSeeds(db, cfg)
	database.WarmUpQueries(db)

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal("file store", zap.Error(err))
	}

	notifLogs := notifRepo.NewGormLogStore(db)
	dispatcher := notif.NewDispatcher(notifLogs, notif.NewMailer(cfg, log), log)

	ledger := finService.NewLedgerService(finRepo.NewGormRepository(db), cfg.BalancePolicy, log)
	loans := assetService.NewLoanService(assetRepo.NewGormRepository(db), dispatcher, log)
	documents := docService.NewDocumentService(docRepo.NewGormRepository(db), dispatcher, docService.NotePolicy{
		OnReject:   cfg.DocumentRequireNoteOnReject,
		OnComplete: cfg.DocumentRequireNoteOnComplete,
	}, log)

	// ⏱ scheduler setelah DB siap
	sched := cron.New(cron.WithLocation(dbtime.Location()))
	if _, err := authScheduler.RegisterBlacklistCleanup(sched, cfg.CronBlacklistCleanup, db, cfg.TokenBlacklistTTLDays); err != nil {
		log.Error("cron blacklist cleanup", zap.Error(err))
	}
	if _, err := assetScheduler.RegisterOverdueReminder(sched, cfg.CronOverdueLoans, loans); err != nil {
		log.Error("cron overdue loans", zap.Error(err))
	}
	sched.Start()

	// file lokal (UPLOAD_DIR); diabaikan bila memakai OSS
	if !cfg.OSSEnabled() {
		app.Static("/uploads", cfg.UploadDir, fiber.Static{MaxAge: 3600})
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Store:     store,
		Auth:      authService.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL),
		Ledger:    ledger,
		Loans:     loans,
		Documents: documents,
		Dashboard: dashService.NewDashboardService(db, ledger, cfg.DefaultLedger),
		NotifLogs: notifLogs,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := cfg.Port
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Info("listening", zap.String("port", port))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown berurutan: server dikuras (tidak ada handler baru yang Dispatch),
	// cron berhenti, dispatcher ditutup lalu ditunggu, terakhir pool DB.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-sched.Stop().Done()
	dispatcher.Close()
	database.Close(db)
}
