package lifecycle

import (
	"errors"
	"log"

	"gorm.io/gorm"
)

// BatchTrashResult reports the outcome of a BatchTrashPhotos call.
// FirstAlbumID is the album of the first successfully trashed photo, for
// caller navigation; nil when nothing was trashed.
type BatchTrashResult struct {
	PhotosTrashed int   `json:"photos_trashed"`
	FirstAlbumID  *uint `json:"first_album_id,omitempty"`
}

// BatchTrashPhotos trashes each of the given photos, skipping ids that do
// not exist or are already trashed. Partial success is the normal outcome;
// only an empty id set fails the batch itself, with ErrNothingSelected.
func (e *Engine) BatchTrashPhotos(photoIDs []uint) (*BatchTrashResult, error) {
	seen := make(map[uint]bool, len(photoIDs))
	var ids []uint
	for _, id := range photoIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}

	result := &BatchTrashResult{}
	for _, id := range ids {
		photo, err := e.TrashPhoto(id)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("lifecycle: batch trash skipping photo ID %d: %v", id, err)
			}
			continue
		}
		result.PhotosTrashed++
		if result.FirstAlbumID == nil {
			albumID := photo.AlbumID
			result.FirstAlbumID = &albumID
		}
	}
	return result, nil
}
