package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Goldexcool/TaskTrekBackend/internal/api/auth_api"
	"github.com/Goldexcool/TaskTrekBackend/internal/api/board_api"
	"github.com/Goldexcool/TaskTrekBackend/internal/config"
	"github.com/Goldexcool/TaskTrekBackend/internal/database"
	"github.com/Goldexcool/TaskTrekBackend/internal/repository/auth_repository"
	"github.com/Goldexcool/TaskTrekBackend/internal/repository/board_repository"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/auth_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/board_services"
	"github.com/Goldexcool/TaskTrekBackend/internal/services/mail_services"
)

func setupCORS(cfg config.Config, router http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CorsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		Debug:            false,
	})

	return c.Handler(router)
}

func main() {
	cfg := config.Load()

	db, closeDB, err := database.NewConnection(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("FATAL: database connection failed: %v", err)
	}
	defer closeDB()
	log.Println("INFO: Database connection successful")

	// AUTH
	userRepo := auth_repository.NewUserRepo(db)
	refreshRepo := auth_repository.NewRefreshRepo(db)
	authSvc := auth_services.NewAuthService(userRepo, refreshRepo, auth_services.Config{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	authHandler := auth_api.NewAuthHandler(authSvc)

	// MAIL NOTIFICATIONS
	mailSvc := mail_services.New(mail_services.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	var notifier board_services.Notifier
	if mailSvc.IsConfigured() {
		notifier = mailSvc
	} else {
		log.Println("INFO: SMTP not configured, email notifications disabled")
	}

	// TEAMS
	teamRepo := board_repository.NewTeamRepo(db)
	boardRepo := board_repository.NewBoardRepo(db)
	columnRepo := board_repository.NewColumnRepo(db)
	taskRepo := board_repository.NewTaskRepo(db)

	teamSvc := board_services.NewTeamService(teamRepo, boardRepo, columnRepo, taskRepo, userRepo, notifier)
	teamHandler := board_api.NewTeamHandler(teamSvc, authSvc)

	// BOARDS
	boardSvc := board_services.NewBoardService(boardRepo, teamRepo, columnRepo, taskRepo, userRepo, notifier)
	boardHandler := board_api.NewBoardHandler(boardSvc, authSvc)

	// COLUMNS
	columnSvc := board_services.NewColumnService(columnRepo, boardRepo, teamRepo, taskRepo)
	columnHandler := board_api.NewColumnHandler(columnSvc, authSvc)

	// TASKS
	taskSvc := board_services.NewTaskService(taskRepo, columnRepo, boardRepo, teamRepo, userRepo, notifier)
	taskHandler := board_api.NewTaskHandler(taskSvc, authSvc)

	r := mux.NewRouter()

	authHandler.RegisterRoutes(r)
	teamHandler.TeamRoutes(r)
	boardHandler.BoardRoutes(r)
	columnHandler.ColumnRoutes(r)
	taskHandler.TaskRoutes(r)

	handlerWithCORS := setupCORS(cfg, r)

	log.Printf("INFO: Starting HTTP server on port %s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handlerWithCORS); err != nil {
		log.Fatalf("FATAL: failed to start HTTP server: %v", err)
	}
}
