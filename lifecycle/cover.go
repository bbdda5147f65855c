package lifecycle

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/photovaultbackend/models"
)

// CoverResolver recomputes an album's representative image when its photo
// set changes. It only ever self-heals an empty cover: an existing non-empty
// cover is never overwritten, even when it points at a trashed photo.
type CoverResolver struct {
	DB      *gorm.DB
	BaseURL string
}

// NewCoverResolver creates a new CoverResolver
func NewCoverResolver(db *gorm.DB, baseURL string) *CoverResolver {
	return &CoverResolver{DB: db, BaseURL: baseURL}
}

// PhotoURL returns the public URL a cover assignment stores for a photo.
func (c *CoverResolver) PhotoURL(photo *models.Photo) string {
	return photo.PublicURL(c.BaseURL)
}

// Resolve assigns a cover to the album if it has none and at least one
// Active photo exists. The pick is deterministic: the photo that sorts first
// under the default photo ordering (sort_order DESC, created_at DESC, with
// id DESC breaking exact ties). Idempotent; an album with zero active photos
// is left untouched.
func (c *CoverResolver) Resolve(albumID uint) error {
	var album models.Album
	if err := c.DB.First(&album, albumID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// album purged out from under us; nothing to heal
			return nil
		}
		return fmt.Errorf("failed to load album ID %d for cover resolution: %w", albumID, err)
	}

	if album.CoverImage != "" {
		return nil
	}

	var photo models.Photo
	err := c.DB.Where("album_id = ? AND is_deleted = ?", albumID, false).
		Order("sort_order DESC, created_at DESC, id DESC").
		First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to pick cover photo for album ID %d: %w", albumID, err)
	}

	now := time.Now().Unix()
	res := c.DB.Model(&models.Album{}).Where("id = ?", albumID).
		Updates(map[string]interface{}{"cover_image": c.PhotoURL(&photo), "updated_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to assign cover for album ID %d: %w", albumID, res.Error)
	}
	return nil
}
