package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/database"
	"github.com/camden-git/photovaultbackend/handlers"
	"github.com/camden-git/photovaultbackend/lifecycle"
	"github.com/camden-git/photovaultbackend/media"
	"github.com/camden-git/photovaultbackend/models"
	"github.com/camden-git/photovaultbackend/realtime"
	"github.com/camden-git/photovaultbackend/repository"
	"github.com/camden-git/photovaultbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.UploadsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}

	store, err := media.NewLocalStorage(cfg.UploadsPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	albumRepo := repository.NewAlbumRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := seedAdminUser(userRepo, cfg); err != nil {
		log.Fatalf("FATAL: Failed to seed admin user: %v", err)
	}

	covers := lifecycle.NewCoverResolver(db, cfg.PublicBaseURL)
	reconciler := media.NewReconciler(store)
	engine := lifecycle.NewEngine(db, reconciler, covers)

	log.Printf("Initializing photo processor worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	processor := workers.NewPhotoProcessor(cfg, db, store, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)
	defer processor.Stop()

	hub := realtime.NewHub()
	go hub.Run()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing uploads in: %s", cfg.UploadsPath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	jwtSecret := []byte(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	albumHandler := handlers.NewAlbumHandler(albumRepo, photoRepo, covers, cfg)
	adminAlbumHandler := handlers.NewAdminAlbumHandler(albumRepo, photoRepo, engine, store, processor, hub, cfg)
	adminPhotoHandler := handlers.NewAdminPhotoHandler(photoRepo, engine, hub, cfg)
	trashHandler := handlers.NewTrashHandler(albumRepo, photoRepo, engine, hub, cfg)
	statsHandler := handlers.NewStatsHandler(albumRepo, photoRepo, cfg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)
			r.Route("/{album_id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Get("/photos", albumHandler.GetAlbumPhotos)
			})
		})
		r.Get("/photos", albumHandler.ListPhotos)
		r.Get("/photos/{photo_id}", albumHandler.GetPhoto)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(func(next http.Handler) http.Handler {
					return handlers.AuthMiddleware(userRepo, jwtSecret, next)
				})

				r.Get("/me", authHandler.CurrentUser)
				r.Get("/stats", statsHandler.GetDashboardStats)

				r.Route("/albums", func(r chi.Router) {
					r.Post("/", adminAlbumHandler.CreateAlbum)
					r.Route("/{album_id}", func(r chi.Router) {
						r.Put("/", adminAlbumHandler.UpdateAlbum)
						r.Delete("/", adminAlbumHandler.DeleteAlbum)
						r.Put("/sort_order", adminAlbumHandler.UpdateAlbumSortOrder)
						r.Put("/cover", adminAlbumHandler.SetAlbumCover)
						r.Post("/photos", adminAlbumHandler.UploadPhoto)
					})
				})

				r.Route("/photos", func(r chi.Router) {
					r.Post("/batch-delete", adminPhotoHandler.BatchDeletePhotos)
					r.Route("/{photo_id}", func(r chi.Router) {
						r.Put("/", adminPhotoHandler.UpdatePhoto)
						r.Delete("/", adminPhotoHandler.DeletePhoto)
						r.Put("/sort_order", adminPhotoHandler.UpdatePhotoSortOrder)
					})
				})

				r.Route("/trash", func(r chi.Router) {
					r.Get("/", trashHandler.ListTrash)
					r.Delete("/", trashHandler.EmptyTrash)
					r.Post("/albums/{album_id}/restore", trashHandler.RestoreAlbum)
					r.Delete("/albums/{album_id}", trashHandler.PurgeAlbum)
					r.Post("/photos/{photo_id}/restore", trashHandler.RestorePhoto)
					r.Delete("/photos/{photo_id}", trashHandler.PurgePhoto)
				})
			})
		})
	})

	r.Get("/ws", hub.ServeWS)
	r.Get("/uploads/*", handlers.AssetServer(cfg.UploadsPath, "/uploads/"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// seedAdminUser creates the initial admin account when the users table is
// empty and credentials are configured
func seedAdminUser(userRepo repository.UserRepository, cfg config.Config) error {
	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Printf("Warning: No users exist and ADMIN_PASSWORD is not set; admin API will be unreachable")
		return nil
	}

	admin := &models.User{Username: cfg.AdminUsername, IsActive: true}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	log.Printf("Seeded admin user '%s'", cfg.AdminUsername)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
