package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"                   // Loads .env files in development
	"github.com/labstack/echo/v4"                // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware (logger, recover)

	"github.com/iliyamo/job-board/internal/config"     // Internal config loader
	"github.com/iliyamo/job-board/internal/database"   // MySQL connection pool
	"github.com/iliyamo/job-board/internal/handler"    // HTTP handlers
	"github.com/iliyamo/job-board/internal/queue"      // RabbitMQ consumer
	"github.com/iliyamo/job-board/internal/repository" // DB repositories
	"github.com/iliyamo/job-board/internal/router"     // Internal router setup
	"github.com/iliyamo/job-board/internal/storage"    // resume file storage
)

func main() {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns the response cache into a
	// pass-through.
	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	jobs := repository.NewJobRepo(db)
	applications := repository.NewApplicationRepo(db)

	resumes := storage.NewDiskStore(cfg.ResumeDir)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	userHandler := handler.NewUserHandler(users, companies)
	companyHandler := handler.NewCompanyHandler(companies, users)
	jobHandler := handler.NewJobHandler(jobs, companies)
	appHandler := handler.NewApplicationHandler(applications, jobs, companies, resumes)

	// Consumes application.submitted events and appends them to the
	// notification log.  Runs for the lifetime of the process.
	go queue.StartApplicationConsumer()

	e := echo.New() // Create Echo instance
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, users)
	router.RegisterPublic(e, companyHandler, jobHandler, cacheCfg, rdb)
	router.RegisterProtected(e, cfg.AccessSecret, users, userHandler, companyHandler, jobHandler, appHandler)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
