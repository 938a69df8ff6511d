package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/db"
	"github.com/hariomtransport/books/db/mongo"
	"github.com/hariomtransport/books/db/postgres"
	"github.com/hariomtransport/books/db/redis"
	"github.com/hariomtransport/books/handlers"
	"github.com/hariomtransport/books/lock"
	"github.com/hariomtransport/books/notify"
	"github.com/hariomtransport/books/repository"
	"github.com/hariomtransport/books/routes"
	"github.com/hariomtransport/books/service"
	"github.com/hariomtransport/books/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbType, err := db.ParseDBType(cfg.DBType)
	if err != nil {
		logger.Fatal(err)
	}

	// closed in reverse order on exit
	var conns []db.DB
	defer func() {
		for i := len(conns) - 1; i >= 0; i-- {
			if err := conns[i].Disconnect(); err != nil {
				logger.WithError(err).Warn("disconnect failed")
			}
		}
	}()

	var store *repository.Store
	switch dbType {
	case db.Postgres:
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			logger.Fatalf("postgres connect: %v", err)
		}
		conns = append(conns, pg)

		if err := db.RunMigrations(pg.Conn, db.DefaultMigrationsPath, logger); err != nil {
			logger.Fatal(err)
		}
		store = repository.NewPostgresStore(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(); err != nil {
			logger.Fatalf("mongo connect: %v", err)
		}
		conns = append(conns, mg)
		store = repository.NewMongoStore(mg.Database)

	case db.Memory:
		logger.Warn("DB_TYPE=memory: books are not persisted")
		store = repository.NewMemoryStore()
	}

	opts := service.Options{
		Logger:         logger,
		CommissionRate: cfg.CommissionRate,
	}

	if cfg.MirrorMongoURL != "" {
		mirror := mongo.NewMongoDB(cfg.MirrorMongoURL, cfg.MongoDatabase)
		if err := mirror.Connect(); err != nil {
			logger.Fatalf("mirror connect: %v", err)
		}
		conns = append(conns, mirror)
		opts.Mirror = repository.NewMongoStore(mirror.Database)
	}

	if cfg.RedisAddress != "" {
		rdb := redis.NewRedisDB(cfg.RedisAddress, logger)
		if err := rdb.Connect(); err != nil {
			logger.Fatal(err)
		}
		conns = append(conns, rdb)
		opts.Locker = lock.NewRedisLocker(rdb.Locker)
		opts.Bus = notify.NewRedisBus(rdb.Client, logger)
	}

	svc := service.NewBookService(store, opts)
	go func() {
		if err := svc.WatchChanges(ctx); err != nil && !errors.Is(err, context.Canceled) {
			config.LogError(logger, "main", "WatchChanges", "change feed stopped", nil, err)
		}
	}()

	pdfHandler := &handlers.PDFHandler{
		Service:   svc,
		Generator: utils.NewPDFGenerator(repository.NewPDFRepository(store), cfg.TemplateDir),
		SavePath:  cfg.PDFSavePath,
		Logger:    logger,
	}
	if cfg.R2.Enabled() {
		uploader, err := utils.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			logger.Fatalf("r2: %v", err)
		}
		pdfHandler.Uploader = uploader
	}

	router := routes.SetupRoutes(routes.Handlers{
		Party:       &handlers.PartyHandler{Service: svc, Logger: logger},
		Bill:        &handlers.BillHandler{Service: svc, Logger: logger},
		Memo:        &handlers.MemoHandler{Service: svc, Logger: logger},
		Bank:        &handlers.BankHandler{Service: svc, Logger: logger},
		Ledger:      &handlers.LedgerHandler{Service: svc, Logger: logger},
		Maintenance: &handlers.MaintenanceHandler{Service: svc, Logger: logger},
		Initial:     &handlers.InitialHandler{Service: svc, Logger: logger},
		PDF:         pdfHandler,
	}, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(logrus.Fields{"port": cfg.Port, "db": dbType, "origin": svc.Origin()}).Info("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
}
