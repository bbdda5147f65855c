package handlers

import (
	"log"
	"net/http"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/repository"
)

type StatsHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	PhotoRepo repository.PhotoRepositoryInterface
	Cfg       config.Config
}

func NewStatsHandler(albumRepo repository.AlbumRepositoryInterface, photoRepo repository.PhotoRepositoryInterface, cfg config.Config) *StatsHandler {
	return &StatsHandler{AlbumRepo: albumRepo, PhotoRepo: photoRepo, Cfg: cfg}
}

// GetDashboardStats reports library counts plus the most recent activity
// for the admin dashboard
func (h *StatsHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	albumCount, err := h.AlbumRepo.CountActive()
	if err != nil {
		log.Printf("Error counting albums: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	photoCount, err := h.PhotoRepo.Count(repository.PhotoListOptions{})
	if err != nil {
		log.Printf("Error counting photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	trashedPhotoCount, err := h.PhotoRepo.Count(repository.PhotoListOptions{Trashed: true})
	if err != nil {
		log.Printf("Error counting trashed photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	trashedAlbums, err := h.AlbumRepo.ListTrashed()
	if err != nil {
		log.Printf("Error listing trashed albums: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	recentAlbums, err := h.AlbumRepo.ListRecentActive(5)
	if err != nil {
		log.Printf("Error listing recent albums: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	recentPhotos, err := h.PhotoRepo.ListRecentActive(10)
	if err != nil {
		log.Printf("Error listing recent photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"album_count":         albumCount,
		"photo_count":         photoCount,
		"trashed_album_count": len(trashedAlbums),
		"trashed_photo_count": trashedPhotoCount,
		"recent_albums":       recentAlbums,
		"recent_photos":       newPhotoResponseList(recentPhotos, h.Cfg.PublicBaseURL),
	})
}
