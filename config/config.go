package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultPhotoQueueSize   = 200
	defaultNumPhotoWorkers  = 4
	defaultThumbnailMaxSize = 300
	defaultPreviewMaxWidth  = 2000
)

type Config struct {
	// database path
	DatabasePath string

	// uploads storage configuration
	UploadsPath string // root for originals and their derived variants

	// base URL prepended to photo/cover URLs handed to clients
	PublicBaseURL string

	// derivative generation settings
	ThumbnailMaxSize int
	PreviewMaxWidth  int

	// worker settings
	PhotoQueueSize  int
	NumPhotoWorkers int

	// admin auth
	JWTSecret     string
	AdminUsername string
	AdminPassword string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "photos.db")

	uploads := getEnvOrDefault("UPLOADS_PATH", filepath.Join(".", "uploads"))
	absUploads, err := filepath.Abs(uploads)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for uploads directory '%s': %w", uploads, err)
	}

	baseURL := strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", ""), "/")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:     dbPath,
		UploadsPath:      absUploads,
		PublicBaseURL:    baseURL,
		ThumbnailMaxSize: getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		PreviewMaxWidth:  getEnvIntOrDefault("PREVIEW_MAX_WIDTH", defaultPreviewMaxWidth),
		PhotoQueueSize:   getEnvIntOrDefault("PHOTO_QUEUE_SIZE", defaultPhotoQueueSize),
		NumPhotoWorkers:  getEnvIntOrDefault("NUM_PHOTO_WORKERS", defaultNumPhotoWorkers),
		JWTSecret:        jwtSecret,
		AdminUsername:    getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}

	return cfg, nil
}
