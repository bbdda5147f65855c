package repository

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/photovaultbackend/database"
	"github.com/camden-git/photovaultbackend/models"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	now := time.Now().Unix()
	if album.CreatedAt == 0 {
		album.CreatedAt = now
	}
	if album.UpdatedAt == 0 {
		album.UpdatedAt = now
	}

	err := r.DB.Create(album).Error
	if err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Name, err)
	}
	return nil
}

// GetByID retrieves an album by its ID regardless of lifecycle state
func (r *AlbumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// GetActiveByID retrieves an Active album by its ID; trashed albums are
// invisible to default views
func (r *AlbumRepository) GetActiveByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.Where("id = ? AND is_deleted = ?", id, false).First(&album).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get active album by ID %d: %w", id, err)
	}
	return &album, nil
}

// ListActive retrieves all Active albums under the given sort key
func (r *AlbumRepository) ListActive(sortBy, order string) ([]models.Album, error) {
	clauses, err := database.AlbumOrderClauses(sortBy, order)
	if err != nil {
		return nil, err
	}

	var albums []models.Album
	err = r.DB.Where("is_deleted = ?", false).Order(strings.Join(clauses, ", ")).Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// ListTrashed retrieves all Trashed albums, most recently trashed first
func (r *AlbumRepository) ListTrashed() ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("is_deleted = ?", true).Order("deleted_at DESC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed albums: %w", err)
	}
	return albums, nil
}

// ListRecentActive retrieves the most recently updated Active albums
func (r *AlbumRepository) ListRecentActive(limit int) ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("is_deleted = ?", false).Order("updated_at DESC").Limit(limit).Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent albums: %w", err)
	}
	return albums, nil
}

// CountActive returns the number of Active albums
func (r *AlbumRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Album{}).Where("is_deleted = ?", false).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return count, nil
}

// Update updates an existing album's name and description
// other fields are updated by specific methods
func (r *AlbumRepository) Update(albumID uint, name string, description *string) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if name != "" {
		updates["name"] = name
	}
	if description != nil {
		if *description == "" { // allow clearing the description
			updates["description"] = gorm.Expr("NULL")
		} else {
			updates["description"] = *description
		}
	}

	// if only updated_at is present, no actual fields were changed
	if len(updates) == 1 {
		return nil
	}

	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSortOrder updates the manual sort order for an album
func (r *AlbumRepository) UpdateSortOrder(albumID uint, sortOrder int) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"sort_order": sortOrder,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update sort order for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetCover stores the cover image URL for an album
func (r *AlbumRepository) SetCover(albumID uint, coverURL string) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"cover_image": coverURL,
		"updated_at":  now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set cover for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
