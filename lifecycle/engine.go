package lifecycle

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/photovaultbackend/media"
	"github.com/camden-git/photovaultbackend/models"
)

// Engine applies trash/restore/purge transitions to albums and photos.
//
// Every operation re-reads the row's lifecycle state inside its transaction
// and proceeds only if the operation's precondition still holds (Active for
// trash, Trashed for restore/purge); a lost race surfaces as
// gorm.ErrRecordNotFound rather than a double-applied transition. Cascading
// operations commit photo-level mutations before album-level ones, and file
// removal always happens after the commit, never inside it.
type Engine struct {
	DB         *gorm.DB
	Reconciler *media.Reconciler
	Covers     *CoverResolver
}

// NewEngine creates a new lifecycle engine
func NewEngine(db *gorm.DB, reconciler *media.Reconciler, covers *CoverResolver) *Engine {
	return &Engine{DB: db, Reconciler: reconciler, Covers: covers}
}

// PurgeAlbumResult reports the outcome of a successful PurgeAlbum.
type PurgeAlbumResult struct {
	PhotosPurged int      `json:"photos_purged"`
	FileWarnings []string `json:"file_warnings,omitempty"`
}

// PurgePhotoResult reports the outcome of a successful PurgePhoto.
type PurgePhotoResult struct {
	AlbumID      uint     `json:"album_id"`
	FileWarnings []string `json:"file_warnings,omitempty"`
}

// EmptyTrashResult reports the outcome of a successful EmptyTrash.
type EmptyTrashResult struct {
	AlbumsPurged int64    `json:"albums_purged"`
	PhotosPurged int64    `json:"photos_purged"`
	FileWarnings []string `json:"file_warnings,omitempty"`
}

// TrashAlbum moves an Active album into the trash and cascades to every
// Active photo under it; all of them get the same deleted_at. Photos that
// were already Trashed keep their original deleted_at. Returns the number of
// cascaded photos.
func (e *Engine) TrashAlbum(albumID uint) (int64, error) {
	var cascaded int64
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.Where("id = ? AND is_deleted = ?", albumID, false).First(&album).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load album ID %d for trash: %w", albumID, err)
		}

		now := time.Now().Unix()

		// photos before the album, so no photo row ever points at an album
		// state it has not caught up with
		res := tx.Model(&models.Photo{}).
			Where("album_id = ? AND is_deleted = ?", albumID, false).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to trash photos of album ID %d: %w", albumID, res.Error)
		}
		cascaded = res.RowsAffected

		res = tx.Model(&models.Album{}).
			Where("id = ? AND is_deleted = ?", albumID, false).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to trash album ID %d: %w", albumID, res.Error)
		}
		if res.RowsAffected == 0 {
			// lost a race with a concurrent trash; roll back the cascade
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cascaded, nil
}

// RestoreAlbum moves a Trashed album back to Active and restores every
// Trashed photo under it, including photos that were trashed individually
// before the album was. Returns the number of restored photos.
func (e *Engine) RestoreAlbum(albumID uint) (int64, error) {
	var restored int64
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.Where("id = ? AND is_deleted = ?", albumID, true).First(&album).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load album ID %d for restore: %w", albumID, err)
		}

		now := time.Now().Unix()

		res := tx.Model(&models.Photo{}).
			Where("album_id = ? AND is_deleted = ?", albumID, true).
			Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
		if res.Error != nil {
			return fmt.Errorf("failed to restore photos of album ID %d: %w", albumID, res.Error)
		}
		restored = res.RowsAffected

		res = tx.Model(&models.Album{}).
			Where("id = ? AND is_deleted = ?", albumID, true).
			Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to restore album ID %d: %w", albumID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

// PurgeAlbum permanently removes a Trashed album together with every photo
// row under it, whatever lifecycle state those photos are in. The rows are
// deleted in one transaction (photos first); on-disk files are reconciled
// after the commit and their failures are reported as warnings, never as an
// aborted purge.
func (e *Engine) PurgeAlbum(albumID uint) (*PurgeAlbumResult, error) {
	var photos []models.Photo
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.Where("id = ? AND is_deleted = ?", albumID, true).First(&album).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load album ID %d for purge: %w", albumID, err)
		}

		if err := tx.Where("album_id = ?", albumID).Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to list photos of album ID %d for purge: %w", albumID, err)
		}

		if err := tx.Where("album_id = ?", albumID).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to purge photos of album ID %d: %w", albumID, err)
		}

		res := tx.Where("id = ? AND is_deleted = ?", albumID, true).Delete(&models.Album{})
		if res.Error != nil {
			return fmt.Errorf("failed to purge album ID %d: %w", albumID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &PurgeAlbumResult{PhotosPurged: len(photos)}
	for i := range photos {
		result.FileWarnings = append(result.FileWarnings, e.Reconciler.ReconcileFiles(&photos[i])...)
	}
	return result, nil
}

// TrashPhoto moves an Active photo into the trash. The owning album's
// lifecycle state is untouched. Returns the photo as it was trashed.
func (e *Engine) TrashPhoto(photoID uint) (*models.Photo, error) {
	var photo models.Photo
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", photoID, false).First(&photo).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load photo ID %d for trash: %w", photoID, err)
		}

		now := time.Now().Unix()
		res := tx.Model(&models.Photo{}).
			Where("id = ? AND is_deleted = ?", photoID, false).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to trash photo ID %d: %w", photoID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		photo.IsDeleted = true
		photo.DeletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.resolveCover(photo.AlbumID)
	return &photo, nil
}

// RestorePhoto moves a Trashed photo back to Active. The owning album's
// state is not changed, even when the album itself is Trashed; a photo can
// end up Active under a Trashed album through this path.
func (e *Engine) RestorePhoto(photoID uint) (*models.Photo, error) {
	var photo models.Photo
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", photoID, true).First(&photo).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load photo ID %d for restore: %w", photoID, err)
		}

		res := tx.Model(&models.Photo{}).
			Where("id = ? AND is_deleted = ?", photoID, true).
			Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
		if res.Error != nil {
			return fmt.Errorf("failed to restore photo ID %d: %w", photoID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		photo.IsDeleted = false
		photo.DeletedAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.resolveCover(photo.AlbumID)
	return &photo, nil
}

// PurgePhoto permanently removes a Trashed photo row, then reconciles its
// on-disk files. If the photo was the album's cover, the cover is cleared in
// the same transaction so a non-empty cover never references a purged photo;
// the resolver reassigns it afterwards from the remaining active photos.
func (e *Engine) PurgePhoto(photoID uint) (*PurgePhotoResult, error) {
	var photo models.Photo
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", photoID, true).First(&photo).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return err
			}
			return fmt.Errorf("failed to load photo ID %d for purge: %w", photoID, err)
		}

		var album models.Album
		if err := tx.First(&album, photo.AlbumID).Error; err == nil {
			if album.CoverImage != "" && album.CoverImage == e.Covers.PhotoURL(&photo) {
				now := time.Now().Unix()
				if err := tx.Model(&models.Album{}).Where("id = ?", album.ID).
					Updates(map[string]interface{}{"cover_image": "", "updated_at": now}).Error; err != nil {
					return fmt.Errorf("failed to clear cover of album ID %d: %w", album.ID, err)
				}
			}
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to load album ID %d for cover check: %w", photo.AlbumID, err)
		}

		res := tx.Where("id = ? AND is_deleted = ?", photoID, true).Delete(&models.Photo{})
		if res.Error != nil {
			return fmt.Errorf("failed to purge photo ID %d: %w", photoID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &PurgePhotoResult{AlbumID: photo.AlbumID}
	result.FileWarnings = e.Reconciler.ReconcileFiles(&photo)
	e.resolveCover(photo.AlbumID)
	return result, nil
}

// EmptyTrash permanently removes every Trashed photo and every Trashed album.
// Photo rows are deleted before album rows to respect the foreign-key
// relationship; file reconciliation follows the commit.
func (e *Engine) EmptyTrash() (*EmptyTrashResult, error) {
	var photos []models.Photo
	result := &EmptyTrashResult{}
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_deleted = ?", true).Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to list trashed photos: %w", err)
		}

		res := tx.Where("is_deleted = ?", true).Delete(&models.Photo{})
		if res.Error != nil {
			return fmt.Errorf("failed to purge trashed photos: %w", res.Error)
		}
		result.PhotosPurged = res.RowsAffected

		res = tx.Where("is_deleted = ?", true).Delete(&models.Album{})
		if res.Error != nil {
			return fmt.Errorf("failed to purge trashed albums: %w", res.Error)
		}
		result.AlbumsPurged = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range photos {
		result.FileWarnings = append(result.FileWarnings, e.Reconciler.ReconcileFiles(&photos[i])...)
	}
	return result, nil
}

// resolveCover re-evaluates an album's cover after a cover-relevant change.
// The cover is recomputable on the next album detail view, so a resolver
// failure downgrades to a log line instead of failing the committed
// lifecycle operation.
func (e *Engine) resolveCover(albumID uint) {
	if err := e.Covers.Resolve(albumID); err != nil {
		log.Printf("lifecycle: failed to resolve cover for album ID %d: %v", albumID, err)
	}
}
