package models

// Album represents a photo album in the database using GORM.
// It corresponds to the 'albums' table.
//
// Soft deletion is tracked explicitly via IsDeleted/DeletedAt instead of
// gorm.DeletedAt: the recycle bin is a first-class queryable view of the
// same table and the lifecycle engine owns every transition.
type Album struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"" json:"description,omitempty"` // Nullable
	CoverImage  string  `gorm:"not null;default:''" json:"cover_image"`
	SortOrder   int     `gorm:"not null;default:0" json:"sort_order"` // higher sorts first
	IsDeleted   bool    `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt   *int64  `gorm:"" json:"deleted_at,omitempty"` // Nullable, Unix timestamp, set iff IsDeleted
	CreatedAt   int64   `gorm:"not null" json:"created_at"`   // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt   int64   `gorm:"not null" json:"updated_at"`   // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}
