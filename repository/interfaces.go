package repository

import (
	"github.com/camden-git/photovaultbackend/models"
)

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	GetActiveByID(id uint) (*models.Album, error)
	ListActive(sortBy, order string) ([]models.Album, error)
	ListTrashed() ([]models.Album, error)
	ListRecentActive(limit int) ([]models.Album, error)
	CountActive() (int64, error)
	Update(albumID uint, name string, description *string) error
	UpdateSortOrder(albumID uint, sortOrder int) error
	SetCover(albumID uint, coverURL string) error
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Create(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetActiveByID(id uint) (*models.Photo, error)
	List(opts PhotoListOptions) ([]models.Photo, error)
	Count(opts PhotoListOptions) (int64, error)
	CountGroupedByAlbum(trashed bool) (map[uint]int64, error)
	ListTrashed() ([]models.Photo, error)
	ListRecentActive(limit int) ([]models.Photo, error)
	UpdateDescription(photoID uint, description *string) error
	UpdateSortOrder(photoID uint, sortOrder int) error
}

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)
}
