package repository

import (
	"path/filepath"
	"reflect"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/photovaultbackend/database"
	"github.com/camden-git/photovaultbackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Album{}, &models.Photo{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func addPhoto(t *testing.T, repo *PhotoRepository, albumID uint, original string, sortOrder int, createdAt int64, trashed bool) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		AlbumID:          albumID,
		Filename:         original + "-stored",
		OriginalFilename: original,
		FilePath:         "/uploads/" + original,
		FileSize:         1024,
		SortOrder:        sortOrder,
		CreatedAt:        createdAt,
	}
	if err := repo.Create(photo); err != nil {
		t.Fatalf("Create(%s): %v", original, err)
	}
	if trashed {
		now := createdAt + 1
		res := repo.DB.Model(&models.Photo{}).Where("id = ?", photo.ID).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
		if res.Error != nil {
			t.Fatalf("trashing %s: %v", original, res.Error)
		}
	}
	return photo
}

func names(photos []models.Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.OriginalFilename
	}
	return out
}

func TestListExcludesTrashedByDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	addPhoto(t, repo, 1, "visible.jpg", 0, 100, false)
	addPhoto(t, repo, 1, "hidden.jpg", 0, 200, true)

	photos, err := repo.List(PhotoListOptions{AlbumID: uintPtr(1)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(photos) != 1 || photos[0].OriginalFilename != "visible.jpg" {
		t.Errorf("List = %v, want only visible.jpg", names(photos))
	}

	trashed, err := repo.List(PhotoListOptions{AlbumID: uintPtr(1), Trashed: true})
	if err != nil {
		t.Fatalf("List trashed: %v", err)
	}
	if len(trashed) != 1 || trashed[0].OriginalFilename != "hidden.jpg" {
		t.Errorf("List trashed = %v, want only hidden.jpg", names(trashed))
	}
}

func TestListDefaultOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	addPhoto(t, repo, 1, "low-old.jpg", 1, 100, false)
	addPhoto(t, repo, 1, "high.jpg", 10, 50, false)
	addPhoto(t, repo, 1, "low-new.jpg", 1, 200, false)

	photos, err := repo.List(PhotoListOptions{AlbumID: uintPtr(1)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"high.jpg", "low-new.jpg", "low-old.jpg"}
	got := names(photos)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("default order = %v, want %v", got, want)
		}
	}
}

func TestListExplicitSortAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		addPhoto(t, repo, 1, name, 0, int64(100+i), false)
	}

	photos, err := repo.List(PhotoListOptions{
		AlbumID: uintPtr(1),
		SortBy:  database.SortCreatedAt,
		Order:   database.OrderAsc,
		Limit:   2,
		Offset:  1,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := names(photos)
	if len(got) != 2 || got[0] != "b.jpg" || got[1] != "c.jpg" {
		t.Errorf("paginated list = %v, want [b.jpg c.jpg]", got)
	}
}

func TestListNaturalFilenameSort(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	for i, name := range []string{"img10.jpg", "img2.jpg", "img1.jpg"} {
		addPhoto(t, repo, 1, name, 0, int64(100+i), false)
	}

	photos, err := repo.List(PhotoListOptions{AlbumID: uintPtr(1), SortBy: database.SortFilenameNat, Order: database.OrderAsc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"img1.jpg", "img2.jpg", "img10.jpg"}
	got := names(photos)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("natural sort = %v, want %v", got, want)
		}
	}
}

func TestListRejectsUnknownSortKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	if _, err := repo.List(PhotoListOptions{SortBy: "file_path"}); err == nil {
		t.Error("expected unknown sort key to be rejected")
	}
}

func TestCountMatchesFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPhotoRepository(db)
	addPhoto(t, repo, 1, "one.jpg", 0, 100, false)
	addPhoto(t, repo, 1, "two.jpg", 0, 200, true)
	addPhoto(t, repo, 2, "other.jpg", 0, 300, false)

	count, err := repo.Count(PhotoListOptions{AlbumID: uintPtr(1)})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("active count for album 1 = %d, want 1", count)
	}

	total, err := repo.Count(PhotoListOptions{})
	if err != nil {
		t.Fatalf("Count all: %v", err)
	}
	if total != 2 {
		t.Errorf("active count = %d, want 2", total)
	}
}

func TestListNaturalFilenameSortPaginatesAfterSorting(t *testing.T) {
	repo := NewPhotoRepository(newTestDB(t))
	// inserted out of natural order so SQL row order differs from natsort order
	for _, name := range []string{"img10.jpg", "img2.jpg", "img12.jpg", "img1.jpg", "img11.jpg", "img3.jpg"} {
		addPhoto(t, repo, 1, name, 0, 100, false)
	}

	page, err := repo.List(PhotoListOptions{
		AlbumID: uintPtr(1),
		SortBy:  database.SortFilenameNat,
		Order:   database.OrderAsc,
		Limit:   2,
		Offset:  2,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"img3.jpg", "img10.jpg"}
	if got := names(page); !reflect.DeepEqual(got, want) {
		t.Errorf("second page = %v, want %v", got, want)
	}

	tail, err := repo.List(PhotoListOptions{
		AlbumID: uintPtr(1),
		SortBy:  database.SortFilenameNat,
		Order:   database.OrderAsc,
		Limit:   10,
		Offset:  5,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := names(tail); !reflect.DeepEqual(got, []string{"img12.jpg"}) {
		t.Errorf("tail page = %v, want [img12.jpg]", got)
	}

	empty, err := repo.List(PhotoListOptions{
		AlbumID: uintPtr(1),
		SortBy:  database.SortFilenameNat,
		Order:   database.OrderAsc,
		Limit:   3,
		Offset:  20,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("offset past the end = %v, want empty", names(empty))
	}
}

func TestCountGroupedByAlbum(t *testing.T) {
	repo := NewPhotoRepository(newTestDB(t))
	addPhoto(t, repo, 1, "a.jpg", 0, 100, false)
	addPhoto(t, repo, 1, "b.jpg", 0, 200, false)
	addPhoto(t, repo, 1, "c.jpg", 0, 300, true)
	addPhoto(t, repo, 2, "d.jpg", 0, 400, false)

	active, err := repo.CountGroupedByAlbum(false)
	if err != nil {
		t.Fatalf("CountGroupedByAlbum(false) failed: %v", err)
	}
	if active[1] != 2 || active[2] != 1 {
		t.Errorf("active counts = %v, want album 1: 2, album 2: 1", active)
	}

	trashed, err := repo.CountGroupedByAlbum(true)
	if err != nil {
		t.Fatalf("CountGroupedByAlbum(true) failed: %v", err)
	}
	if trashed[1] != 1 {
		t.Errorf("trashed counts = %v, want album 1: 1", trashed)
	}
	if _, ok := trashed[2]; ok {
		t.Errorf("album 2 has no trashed photos but appears in counts: %v", trashed)
	}
}

func uintPtr(v uint) *uint { return &v }
