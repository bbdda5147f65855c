package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/lifecycle"
	"github.com/camden-git/photovaultbackend/models"
	"github.com/camden-git/photovaultbackend/realtime"
	"github.com/camden-git/photovaultbackend/repository"
	"gorm.io/gorm"
)

// TrashHandler exposes the recycle bin: listing trashed rows, restoring
// them, and permanently purging them
type TrashHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	PhotoRepo repository.PhotoRepositoryInterface
	Engine    *lifecycle.Engine
	Hub       *realtime.Hub
	Cfg       config.Config
}

func NewTrashHandler(albumRepo repository.AlbumRepositoryInterface, photoRepo repository.PhotoRepositoryInterface, engine *lifecycle.Engine, hub *realtime.Hub, cfg config.Config) *TrashHandler {
	return &TrashHandler{AlbumRepo: albumRepo, PhotoRepo: photoRepo, Engine: engine, Hub: hub, Cfg: cfg}
}

// TrashedAlbumResponse is a trashed album row plus how many trashed
// photos it holds
type TrashedAlbumResponse struct {
	models.Album
	TrashedPhotoCount int64 `json:"trashed_photo_count"`
}

// TrashedPhotoResponse is a trashed photo row plus its owning album's name
type TrashedPhotoResponse struct {
	PhotoResponse
	AlbumName string `json:"album_name"`
}

// ListTrash returns everything currently in the bin, most recently
// trashed first
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	albums, err := h.AlbumRepo.ListTrashed()
	if err != nil {
		log.Printf("Error listing trashed albums: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve trash")
		return
	}
	photos, err := h.PhotoRepo.ListTrashed()
	if err != nil {
		log.Printf("Error listing trashed photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve trash")
		return
	}

	counts, err := h.PhotoRepo.CountGroupedByAlbum(true)
	if err != nil {
		log.Printf("Error counting trashed photos per album: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve trash")
		return
	}

	albumResponses := make([]TrashedAlbumResponse, 0, len(albums))
	for _, album := range albums {
		albumResponses = append(albumResponses, TrashedAlbumResponse{
			Album:             album,
			TrashedPhotoCount: counts[album.ID],
		})
	}

	albumNames := make(map[uint]string)
	photoResponses := make([]TrashedPhotoResponse, 0, len(photos))
	for _, photo := range photos {
		name, ok := albumNames[photo.AlbumID]
		if !ok {
			if album, err := h.AlbumRepo.GetByID(photo.AlbumID); err == nil {
				name = album.Name
			}
			albumNames[photo.AlbumID] = name
		}
		photoResponses = append(photoResponses, TrashedPhotoResponse{
			PhotoResponse: newPhotoResponse(photo, h.Cfg.PublicBaseURL),
			AlbumName:     name,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"albums": albumResponses,
		"photos": photoResponses,
	})
}

func (h *TrashHandler) RestoreAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	restored, err := h.Engine.RestoreAlbum(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found in trash")
		} else {
			log.Printf("Error restoring album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to restore album")
		}
		return
	}

	h.Hub.EmitAlbum(realtime.EventAlbumRestored, albumID, restored)
	writeJSON(w, http.StatusOK, map[string]interface{}{"restored_photos": restored})
}

func (h *TrashHandler) PurgeAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	result, err := h.Engine.PurgeAlbum(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found in trash")
		} else {
			log.Printf("Error purging album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to purge album")
		}
		return
	}

	h.Hub.EmitAlbum(realtime.EventAlbumPurged, albumID, int64(result.PhotosPurged))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos_purged": result.PhotosPurged,
		"file_warnings": result.FileWarnings,
	})
}

func (h *TrashHandler) RestorePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid photo ID")
		return
	}

	photo, err := h.Engine.RestorePhoto(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found in trash")
		} else {
			log.Printf("Error restoring photo %d: %v", photoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to restore photo")
		}
		return
	}

	h.Hub.EmitPhoto(realtime.EventPhotoRestored, photo.AlbumID, photo.ID)
	writeJSON(w, http.StatusOK, newPhotoResponse(*photo, h.Cfg.PublicBaseURL))
}

func (h *TrashHandler) PurgePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid photo ID")
		return
	}

	result, err := h.Engine.PurgePhoto(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found in trash")
		} else {
			log.Printf("Error purging photo %d: %v", photoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to purge photo")
		}
		return
	}

	h.Hub.EmitPhoto(realtime.EventPhotoPurged, result.AlbumID, photoID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"file_warnings": result.FileWarnings,
	})
}

// EmptyTrash purges every trashed album and photo in one operation
func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	result, err := h.Engine.EmptyTrash()
	if err != nil {
		log.Printf("Error emptying trash: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to empty trash")
		return
	}

	h.Hub.EmitTrashEmptied(result.AlbumsPurged, result.PhotosPurged)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"albums_purged": result.AlbumsPurged,
		"photos_purged": result.PhotosPurged,
		"file_warnings": result.FileWarnings,
	})
}
