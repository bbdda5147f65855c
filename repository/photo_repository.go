package repository

import (
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/camden-git/photovaultbackend/database"
	"github.com/camden-git/photovaultbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var photoColumns = []string{
	"id", "album_id", "filename", "original_filename", "file_path", "file_size",
	"width", "height", "taken_at", "description", "sort_order", "is_deleted", "deleted_at", "created_at",
}

// PhotoListOptions describes a photo listing query. Listings are built with
// squirrel so the filter set can vary per call while the sort key stays
// confined to the permitted enumeration.
type PhotoListOptions struct {
	AlbumID *uint
	Trashed bool
	SortBy  string
	Order   string
	Limit   int
	Offset  int
}

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Create creates a new photo record in the database
func (r *PhotoRepository) Create(photo *models.Photo) error {
	if photo.CreatedAt == 0 {
		photo.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Create(photo).Error
	if err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.Filename, err)
	}
	return nil
}

// GetByID retrieves a photo by its ID regardless of lifecycle state
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// GetActiveByID retrieves an Active photo by its ID
func (r *PhotoRepository) GetActiveByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("id = ? AND is_deleted = ?", id, false).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get active photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// List retrieves photos matching the given options
func (r *PhotoRepository) List(opts PhotoListOptions) ([]models.Photo, error) {
	clauses, err := database.PhotoOrderClauses(opts.SortBy, opts.Order)
	if err != nil {
		return nil, err
	}

	qb := psql.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"is_deleted": opts.Trashed})
	if opts.AlbumID != nil {
		qb = qb.Where(sq.Eq{"album_id": *opts.AlbumID})
	}
	// natural filename order is computed in memory, so pagination must be
	// applied after the sort, not in SQL
	paginateInMemory := opts.SortBy == database.SortFilenameNat
	if len(clauses) > 0 {
		qb = qb.OrderBy(clauses...)
	}
	if !paginateInMemory {
		if opts.Limit > 0 {
			qb = qb.Limit(uint64(opts.Limit))
		}
		if opts.Offset > 0 {
			qb = qb.Offset(uint64(opts.Offset))
		}
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for photo listing: %w", err)
	}

	var photos []models.Photo
	if err := r.DB.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to execute photo listing query: %w", err)
	}

	if paginateInMemory {
		asc := opts.Order != database.OrderDesc
		sort.SliceStable(photos, func(i, j int) bool {
			if asc {
				return natsort.Compare(photos[i].OriginalFilename, photos[j].OriginalFilename)
			}
			return natsort.Compare(photos[j].OriginalFilename, photos[i].OriginalFilename)
		})
		if opts.Offset > 0 {
			if opts.Offset >= len(photos) {
				photos = photos[:0]
			} else {
				photos = photos[opts.Offset:]
			}
		}
		if opts.Limit > 0 && opts.Limit < len(photos) {
			photos = photos[:opts.Limit]
		}
	}

	return photos, nil
}

// Count returns the number of photos matching the given options, ignoring
// pagination and ordering
func (r *PhotoRepository) Count(opts PhotoListOptions) (int64, error) {
	qb := psql.Select("COUNT(id)").
		From("photos").
		Where(sq.Eq{"is_deleted": opts.Trashed})
	if opts.AlbumID != nil {
		qb = qb.Where(sq.Eq{"album_id": *opts.AlbumID})
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for photo count: %w", err)
	}

	var count int64
	if err := r.DB.Raw(sqlStr, args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to execute photo count query: %w", err)
	}
	return count, nil
}

// CountGroupedByAlbum returns per-album photo counts for the given trash
// state. Albums with no matching photos are absent from the map
func (r *PhotoRepository) CountGroupedByAlbum(trashed bool) (map[uint]int64, error) {
	qb := psql.Select("album_id", "COUNT(id) AS photo_count").
		From("photos").
		Where(sq.Eq{"is_deleted": trashed}).
		GroupBy("album_id")

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for grouped photo count: %w", err)
	}

	var rows []struct {
		AlbumID    uint
		PhotoCount int64
	}
	if err := r.DB.Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to execute grouped photo count query: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.AlbumID] = row.PhotoCount
	}
	return counts, nil
}

// ListTrashed retrieves all Trashed photos, most recently trashed first
func (r *PhotoRepository) ListTrashed() ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("is_deleted = ?", true).Order("deleted_at DESC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed photos: %w", err)
	}
	return photos, nil
}

// ListRecentActive retrieves the most recently added Active photos
func (r *PhotoRepository) ListRecentActive(limit int) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("is_deleted = ?", false).Order("created_at DESC").Limit(limit).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent photos: %w", err)
	}
	return photos, nil
}

// UpdateDescription updates a photo's description
func (r *PhotoRepository) UpdateDescription(photoID uint, description *string) error {
	updates := map[string]interface{}{}
	if description == nil || *description == "" {
		updates["description"] = gorm.Expr("NULL")
	} else {
		updates["description"] = *description
	}

	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update description for photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSortOrder updates the manual sort order for a photo
func (r *PhotoRepository) UpdateSortOrder(photoID uint, sortOrder int) error {
	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Update("sort_order", sortOrder)
	if result.Error != nil {
		return fmt.Errorf("failed to update sort order for photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
