package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/lifecycle"
	"github.com/camden-git/photovaultbackend/media"
	"github.com/camden-git/photovaultbackend/models"
	"github.com/camden-git/photovaultbackend/realtime"
	"github.com/camden-git/photovaultbackend/repository"
	"github.com/camden-git/photovaultbackend/utils"
	"github.com/camden-git/photovaultbackend/workers"
	"gorm.io/gorm"
)

const maxUploadMemory = 32 << 20

type AdminAlbumHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	PhotoRepo repository.PhotoRepositoryInterface
	Engine    *lifecycle.Engine
	Store     media.Store
	Processor *workers.PhotoProcessor
	Hub       *realtime.Hub
	Cfg       config.Config
}

func NewAdminAlbumHandler(albumRepo repository.AlbumRepositoryInterface, photoRepo repository.PhotoRepositoryInterface, engine *lifecycle.Engine, store media.Store, processor *workers.PhotoProcessor, hub *realtime.Hub, cfg config.Config) *AdminAlbumHandler {
	return &AdminAlbumHandler{
		AlbumRepo: albumRepo,
		PhotoRepo: photoRepo,
		Engine:    engine,
		Store:     store,
		Processor: processor,
		Hub:       hub,
		Cfg:       cfg,
	}
}

func (h *AdminAlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Missing required field: name")
		return
	}

	album := &models.Album{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := h.AlbumRepo.Create(album); err != nil {
		log.Printf("Error creating album '%s': %v", req.Name, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create album")
		return
	}

	writeJSON(w, http.StatusCreated, album)
}

func (h *AdminAlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	album, err := h.AlbumRepo.GetActiveByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found")
		} else {
			log.Printf("Error finding album %d for update: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to find album for update")
		}
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	if req.Name == nil && req.Description == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "No fields provided for update")
		return
	}

	nameUpdate := album.Name
	if req.Name != nil {
		if *req.Name == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Album name cannot be empty")
			return
		}
		nameUpdate = *req.Name
	}
	descUpdate := album.Description
	if req.Description != nil {
		if *req.Description == "" {
			descUpdate = nil
		} else {
			descUpdate = req.Description
		}
	}

	if err := h.AlbumRepo.Update(album.ID, nameUpdate, descUpdate); err != nil {
		log.Printf("Error updating album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update album")
		return
	}

	updated, err := h.AlbumRepo.GetByID(album.ID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Album updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminAlbumHandler) UpdateAlbumSortOrder(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	var req struct {
		SortOrder *int `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SortOrder == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Request body must include sort_order")
		return
	}

	if err := h.AlbumRepo.UpdateSortOrder(albumID, *req.SortOrder); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found")
		} else {
			log.Printf("Error updating sort order for album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update sort order")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Sort order updated"})
}

func (h *AdminAlbumHandler) SetAlbumCover(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	var req struct {
		PhotoID *uint `json:"photo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhotoID == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Request body must include photo_id")
		return
	}

	photo, err := h.PhotoRepo.GetActiveByID(*req.PhotoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		} else {
			log.Printf("Error finding photo %d for cover: %v", *req.PhotoID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to find photo")
		}
		return
	}
	if photo.AlbumID != albumID {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Photo does not belong to this album")
		return
	}

	if err := h.AlbumRepo.SetCover(albumID, photo.PublicURL(h.Cfg.PublicBaseURL)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found")
		} else {
			log.Printf("Error setting cover for album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to set album cover")
		}
		return
	}

	h.Hub.EmitAlbum(realtime.EventCoverReplaced, albumID, 0)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Album cover updated"})
}

// DeleteAlbum moves an album and its photos to the trash. The rows remain
// recoverable until purged
func (h *AdminAlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	cascaded, err := h.Engine.TrashAlbum(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found")
		} else {
			log.Printf("Error trashing album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete album")
		}
		return
	}

	h.Hub.EmitAlbum(realtime.EventAlbumTrashed, albumID, cascaded)
	writeJSON(w, http.StatusOK, map[string]interface{}{"trashed_photos": cascaded})
}

// UploadPhoto stores a new original and queues derivative generation
func (h *AdminAlbumHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	albumID, err := parseUintParam(r, "album_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Invalid album ID")
		return
	}

	if _, err := h.AlbumRepo.GetActiveByID(albumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Album not found")
		} else {
			log.Printf("Error finding album %d for upload: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to find album")
		}
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Missing file field in upload")
		return
	}
	defer file.Close()

	if !utils.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "Unsupported file type: "+header.Filename)
		return
	}

	storedName, err := utils.GenerateStoredFilename(header.Filename)
	if err != nil {
		log.Printf("Error generating stored filename for upload '%s': %v", header.Filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to process upload")
		return
	}

	savedPath, err := h.Store.Save(storedName, file)
	if err != nil {
		log.Printf("Error saving upload '%s' as %s: %v", header.Filename, storedName, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to store upload")
		return
	}

	photo := &models.Photo{
		AlbumID:          albumID,
		Filename:         storedName,
		OriginalFilename: header.Filename,
		FilePath:         savedPath,
		FileSize:         header.Size,
	}
	if err := h.PhotoRepo.Create(photo); err != nil {
		log.Printf("Error creating photo row for upload '%s': %v", header.Filename, err)
		if delErr := h.Store.Delete(storedName); delErr != nil {
			log.Printf("Error removing orphaned upload %s: %v", storedName, delErr)
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to record upload")
		return
	}

	h.Processor.QueueAllTasks(photo)

	// a first upload into a coverless album becomes its cover
	if err := h.Engine.Covers.Resolve(albumID); err != nil {
		log.Printf("Error resolving cover for album %d after upload: %v", albumID, err)
	}

	h.Hub.EmitPhoto(realtime.EventPhotoUploaded, albumID, photo.ID)
	writeJSON(w, http.StatusCreated, newPhotoResponse(*photo, h.Cfg.PublicBaseURL))
}
