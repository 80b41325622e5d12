package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/formhive/formhive/internal/config"
	"github.com/formhive/formhive/internal/db"
	"github.com/formhive/formhive/internal/gelf"
	"github.com/formhive/formhive/internal/handler"
	"github.com/formhive/formhive/internal/media"
	"github.com/formhive/formhive/internal/repository"
	"github.com/formhive/formhive/internal/router"
	"github.com/formhive/formhive/internal/service"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Connect to Postgres
	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	log.Printf("Connected to database")

	// Media host
	var host media.Host
	if cfg.CloudinaryCloud != "" {
		cld, err := media.NewCloudinary(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
		if err != nil {
			log.Printf("Warning: Cloudinary init failed: %v", err)
		} else {
			host = cld
		}
	}

	// Repositories
	userRepo := repository.NewUserRepo(conn)
	formRepo := repository.NewFormRepo(conn)
	grantRepo := repository.NewGrantRepo(conn)
	subRepo := repository.NewSubmissionRepo(conn)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL)
	formSvc := service.NewFormService(formRepo, grantRepo)
	subSvc := service.NewSubmissionService(subRepo, formRepo, grantRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	formH := handler.NewFormHandler(formSvc)
	subH := handler.NewSubmissionHandler(subSvc, formSvc)
	dashH := handler.NewDashboardHandler(formSvc, subSvc)
	mediaH := handler.NewMediaHandler(host)

	// Router
	r := router.New(cfg.JWTSecret, authH, formH, subH, dashH, mediaH)

	// Start the HTTP server immediately; run schema creation in the
	// background so a cold database never blocks the listener.
	go func() {
		log.Printf("Background init: ensuring schema...")
		if err := db.EnsureSchema(conn); err != nil {
			log.Printf("Warning: schema init failed: %v", err)
			return
		}
		log.Printf("Background init: schema ready")
	}()

	log.Printf("formhive server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
