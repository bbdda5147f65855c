package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/database"
	"github.com/camden-git/photovaultbackend/lifecycle"
	"github.com/camden-git/photovaultbackend/models"
	"github.com/camden-git/photovaultbackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// parseUintParam extracts a positive integer URL parameter from the request
func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

// parsePagination reads limit/offset query parameters with sane bounds
func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// PhotoResponse is the photo representation returned by the API, the stored
// row plus the URLs clients need to fetch the original and its derivatives
type PhotoResponse struct {
	models.Photo
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	PreviewURL   string `json:"preview_url"`
}

func newPhotoResponse(photo models.Photo, baseURL string) PhotoResponse {
	return PhotoResponse{
		Photo:        photo,
		URL:          photo.PublicURL(baseURL),
		ThumbnailURL: photo.ThumbnailURL(baseURL),
		PreviewURL:   photo.PreviewURL(baseURL),
	}
}

func newPhotoResponseList(photos []models.Photo, baseURL string) []PhotoResponse {
	responses := make([]PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		responses = append(responses, newPhotoResponse(photo, baseURL))
	}
	return responses
}

type AlbumHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	PhotoRepo repository.PhotoRepositoryInterface
	Covers    *lifecycle.CoverResolver
	Cfg       config.Config
}

func NewAlbumHandler(albumRepo repository.AlbumRepositoryInterface, photoRepo repository.PhotoRepositoryInterface, covers *lifecycle.CoverResolver, cfg config.Config) *AlbumHandler {
	return &AlbumHandler{AlbumRepo: albumRepo, PhotoRepo: photoRepo, Covers: covers, Cfg: cfg}
}

// AlbumResponse is an album row plus its active photo count
type AlbumResponse struct {
	models.Album
	PhotoCount int64 `json:"photo_count"`
}

func (ah *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	order := r.URL.Query().Get("order")

	albums, err := ah.AlbumRepo.ListActive(sortBy, order)
	if err != nil {
		if errors.Is(err, database.ErrUnknownSortKey) || errors.Is(err, database.ErrUnknownSortOrder) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("Error listing albums: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve albums"})
		return
	}

	counts, err := ah.PhotoRepo.CountGroupedByAlbum(false)
	if err != nil {
		log.Printf("Error counting photos per album: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve albums"})
		return
	}

	responses := make([]AlbumResponse, 0, len(albums))
	for _, album := range albums {
		responses = append(responses, AlbumResponse{Album: album, PhotoCount: counts[album.ID]})
	}
	writeJSON(w, http.StatusOK, responses)
}

func (ah *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid album ID"})
		return
	}

	album, err := ah.AlbumRepo.GetActiveByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Album not found"})
		} else {
			log.Printf("Error getting album %d: %v", albumID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve album"})
		}
		return
	}

	// an empty cover means every prior cover photo was removed; pick a
	// replacement from the remaining active photos before responding
	if album.CoverImage == "" {
		if err := ah.Covers.Resolve(album.ID); err != nil {
			log.Printf("Error resolving cover for album %d: %v", album.ID, err)
		} else if refreshed, err := ah.AlbumRepo.GetActiveByID(albumID); err == nil {
			album = refreshed
		}
	}

	writeJSON(w, http.StatusOK, album)
}

func (ah *AlbumHandler) GetAlbumPhotos(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid album ID"})
		return
	}

	if _, err := ah.AlbumRepo.GetActiveByID(albumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Album not found"})
		} else {
			log.Printf("Error getting album %d for photo listing: %v", albumID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve album"})
		}
		return
	}

	limit, offset := parsePagination(r)
	opts := repository.PhotoListOptions{
		AlbumID: &albumID,
		SortBy:  r.URL.Query().Get("sort"),
		Order:   r.URL.Query().Get("order"),
		Limit:   limit,
		Offset:  offset,
	}

	photos, err := ah.PhotoRepo.List(opts)
	if err != nil {
		if errors.Is(err, database.ErrUnknownSortKey) || errors.Is(err, database.ErrUnknownSortOrder) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("Error listing photos for album %d: %v", albumID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}

	total, err := ah.PhotoRepo.Count(opts)
	if err != nil {
		log.Printf("Error counting photos for album %d: %v", albumID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to count photos"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos": newPhotoResponseList(photos, ah.Cfg.PublicBaseURL),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListPhotos returns active photos across all albums with pagination
func (ah *AlbumHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	opts := repository.PhotoListOptions{
		SortBy: r.URL.Query().Get("sort"),
		Order:  r.URL.Query().Get("order"),
		Limit:  limit,
		Offset: offset,
	}

	photos, err := ah.PhotoRepo.List(opts)
	if err != nil {
		if errors.Is(err, database.ErrUnknownSortKey) || errors.Is(err, database.ErrUnknownSortOrder) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("Error listing photos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}

	total, err := ah.PhotoRepo.Count(opts)
	if err != nil {
		log.Printf("Error counting photos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to count photos"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos": newPhotoResponseList(photos, ah.Cfg.PublicBaseURL),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (ah *AlbumHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photo ID"})
		return
	}

	photo, err := ah.PhotoRepo.GetActiveByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		} else {
			log.Printf("Error getting photo %d: %v", photoID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photo"})
		}
		return
	}

	writeJSON(w, http.StatusOK, newPhotoResponse(*photo, ah.Cfg.PublicBaseURL))
}
