package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/lifecycle"
	"github.com/camden-git/photovaultbackend/realtime"
	"github.com/camden-git/photovaultbackend/repository"
	"gorm.io/gorm"
)

type AdminPhotoHandler struct {
	PhotoRepo repository.PhotoRepositoryInterface
	Engine    *lifecycle.Engine
	Hub       *realtime.Hub
	Cfg       config.Config
}

func NewAdminPhotoHandler(photoRepo repository.PhotoRepositoryInterface, engine *lifecycle.Engine, hub *realtime.Hub, cfg config.Config) *AdminPhotoHandler {
	return &AdminPhotoHandler{PhotoRepo: photoRepo, Engine: engine, Hub: hub, Cfg: cfg}
}

func (h *AdminPhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid photo ID")
		return
	}

	var req struct {
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Description == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "No fields provided for update")
		return
	}

	descUpdate := req.Description
	if *req.Description == "" {
		descUpdate = nil
	}

	if err := h.PhotoRepo.UpdateDescription(photoID, descUpdate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		} else {
			log.Printf("Error updating photo %d: %v", photoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update photo")
		}
		return
	}

	updated, err := h.PhotoRepo.GetByID(photoID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Photo updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, newPhotoResponse(*updated, h.Cfg.PublicBaseURL))
}

func (h *AdminPhotoHandler) UpdatePhotoSortOrder(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid photo ID")
		return
	}

	var req struct {
		SortOrder *int `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SortOrder == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Request body must include sort_order")
		return
	}

	if err := h.PhotoRepo.UpdateSortOrder(photoID, *req.SortOrder); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		} else {
			log.Printf("Error updating sort order for photo %d: %v", photoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update sort order")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Sort order updated"})
}

// DeletePhoto moves a single photo to the trash
func (h *AdminPhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseUintParam(r, "photo_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid photo ID")
		return
	}

	photo, err := h.Engine.TrashPhoto(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		} else {
			log.Printf("Error trashing photo %d: %v", photoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete photo")
		}
		return
	}

	h.Hub.EmitPhoto(realtime.EventPhotoTrashed, photo.AlbumID, photo.ID)
	writeJSON(w, http.StatusOK, newPhotoResponse(*photo, h.Cfg.PublicBaseURL))
}

// BatchDeletePhotos moves a selection of photos to the trash. IDs that no
// longer name an active photo are skipped rather than failing the batch
func (h *AdminPhotoHandler) BatchDeletePhotos(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoIDs []uint `json:"photo_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	result, err := h.Engine.BatchTrashPhotos(req.PhotoIDs)
	if err != nil {
		if errors.Is(err, lifecycle.ErrNothingSelected) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "No photos selected")
		} else {
			log.Printf("Error batch trashing photos: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete photos")
		}
		return
	}

	if result.FirstAlbumID != nil {
		h.Hub.EmitAlbum(realtime.EventPhotoTrashed, *result.FirstAlbumID, int64(result.PhotosTrashed))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trashed_photos": result.PhotosTrashed})
}
