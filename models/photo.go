package models

import "fmt"

// PreviewSizeThreshold is the original file size above which a downscaled
// preview variant is generated and served in place of the original.
const PreviewSizeThreshold = 10 * 1024 * 1024

// Derived artifact filename prefixes. The thumbnail and preview for a photo
// are stored next to the original under deterministic names so they can be
// located (and reconciled) from the photo row alone.
const (
	ThumbnailPrefix = "thumb_"
	PreviewPrefix   = "preview_"
)

// Photo represents a single photo owned by exactly one album.
// It corresponds to the 'photos' table.
type Photo struct {
	ID               uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	AlbumID          uint    `gorm:"not null;index" json:"album_id"` // immutable once created
	Filename         string  `gorm:"not null;unique" json:"filename"`
	OriginalFilename string  `gorm:"not null" json:"original_filename"` // user-supplied, display only
	FilePath         string  `gorm:"not null" json:"file_path"`
	FileSize         int64   `gorm:"not null" json:"file_size"`
	Width            *int    `gorm:"" json:"width,omitempty"`        // Nullable
	Height           *int    `gorm:"" json:"height,omitempty"`       // Nullable
	TakenAt          *int64  `gorm:"index" json:"taken_at,omitempty"` // Nullable, Unix timestamp from EXIF
	Description      *string `gorm:"" json:"description,omitempty"` // Nullable
	SortOrder        int     `gorm:"not null;default:0" json:"sort_order"`
	IsDeleted        bool    `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt        *int64  `gorm:"" json:"deleted_at,omitempty"` // Nullable, Unix timestamp, set iff IsDeleted
	CreatedAt        int64   `gorm:"not null" json:"created_at"`   // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}

// PublicURL returns the URL of the original file under the given base URL.
func (p *Photo) PublicURL(baseURL string) string {
	return fmt.Sprintf("%s/uploads/%s", baseURL, p.Filename)
}

// ThumbnailURL returns the URL of the photo's thumbnail variant.
func (p *Photo) ThumbnailURL(baseURL string) string {
	return fmt.Sprintf("%s/uploads/%s%s", baseURL, ThumbnailPrefix, p.Filename)
}

// PreviewURL returns the URL of the downscaled preview for large originals,
// or the original's URL when the photo is small enough to serve directly.
func (p *Photo) PreviewURL(baseURL string) string {
	if p.FileSize > PreviewSizeThreshold {
		return fmt.Sprintf("%s/uploads/%s%s", baseURL, PreviewPrefix, p.Filename)
	}
	return p.PublicURL(baseURL)
}
