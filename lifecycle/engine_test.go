package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/photovaultbackend/media"
	"github.com/camden-git/photovaultbackend/models"
)

const testBaseURL = "http://localhost:8080"

func newTestEngine(t *testing.T) (*Engine, *media.LocalStorage) {
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

	store, err := media.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	covers := NewCoverResolver(db, testBaseURL)
	return NewEngine(db, media.NewReconciler(store), covers), store
}

func seedAlbum(t *testing.T, db *gorm.DB, name string) *models.Album {
	t.Helper()
	album := &models.Album{Name: name, CreatedAt: 1000, UpdatedAt: 1000}
	if err := db.Create(album).Error; err != nil {
		t.Fatalf("failed to seed album %s: %v", name, err)
	}
	return album
}

func seedPhoto(t *testing.T, db *gorm.DB, albumID uint, filename string, sortOrder int, createdAt int64) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		AlbumID:          albumID,
		Filename:         filename,
		OriginalFilename: filename,
		FilePath:         "/uploads/" + filename,
		FileSize:         2048,
		SortOrder:        sortOrder,
		CreatedAt:        createdAt,
	}
	if err := db.Create(photo).Error; err != nil {
		t.Fatalf("failed to seed photo %s: %v", filename, err)
	}
	return photo
}

func trashRow(t *testing.T, db *gorm.DB, model interface{}, id uint, deletedAt int64) {
	t.Helper()
	res := db.Model(model).Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": deletedAt})
	if res.Error != nil || res.RowsAffected == 0 {
		t.Fatalf("failed to trash seed row %d: %v", id, res.Error)
	}
}

func getAlbum(t *testing.T, db *gorm.DB, id uint) *models.Album {
	t.Helper()
	var album models.Album
	if err := db.First(&album, id).Error; err != nil {
		t.Fatalf("failed to reload album %d: %v", id, err)
	}
	return &album
}

func getPhoto(t *testing.T, db *gorm.DB, id uint) *models.Photo {
	t.Helper()
	var photo models.Photo
	if err := db.First(&photo, id).Error; err != nil {
		t.Fatalf("failed to reload photo %d: %v", id, err)
	}
	return &photo
}

func TestTrashAlbumCascadesToActivePhotosOnly(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "holiday")
	p1 := seedPhoto(t, e.DB, album.ID, "p1.jpg", 5, 100)
	p2 := seedPhoto(t, e.DB, album.ID, "p2.jpg", 5, 200)
	p3 := seedPhoto(t, e.DB, album.ID, "p3.jpg", 10, 50)
	trashRow(t, e.DB, &models.Photo{}, p3.ID, 7777)

	cascaded, err := e.TrashAlbum(album.ID)
	if err != nil {
		t.Fatalf("TrashAlbum: %v", err)
	}
	if cascaded != 2 {
		t.Errorf("cascaded = %d, want 2", cascaded)
	}

	gotAlbum := getAlbum(t, e.DB, album.ID)
	if !gotAlbum.IsDeleted || gotAlbum.DeletedAt == nil {
		t.Fatalf("album not trashed: %+v", gotAlbum)
	}
	for _, id := range []uint{p1.ID, p2.ID} {
		photo := getPhoto(t, e.DB, id)
		if !photo.IsDeleted || photo.DeletedAt == nil {
			t.Fatalf("photo %d not trashed", id)
		}
		if *photo.DeletedAt != *gotAlbum.DeletedAt {
			t.Errorf("photo %d deleted_at = %d, want album's %d", id, *photo.DeletedAt, *gotAlbum.DeletedAt)
		}
	}

	// already-trashed photo keeps its original timestamp
	gotP3 := getPhoto(t, e.DB, p3.ID)
	if gotP3.DeletedAt == nil || *gotP3.DeletedAt != 7777 {
		t.Errorf("p3 deleted_at = %v, want preserved 7777", gotP3.DeletedAt)
	}
}

func TestTrashAlbumWrongStateIsNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.TrashAlbum(12345); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing album: err = %v, want ErrRecordNotFound", err)
	}

	album := seedAlbum(t, e.DB, "twice")
	if _, err := e.TrashAlbum(album.ID); err != nil {
		t.Fatalf("first TrashAlbum: %v", err)
	}
	if _, err := e.TrashAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second TrashAlbum: err = %v, want ErrRecordNotFound", err)
	}
}

func TestRestoreAlbumRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "roundtrip")
	p1 := seedPhoto(t, e.DB, album.ID, "rt1.jpg", 0, 100)
	p2 := seedPhoto(t, e.DB, album.ID, "rt2.jpg", 0, 200)
	p3 := seedPhoto(t, e.DB, album.ID, "rt3.jpg", 0, 300)
	trashRow(t, e.DB, &models.Photo{}, p3.ID, 4444) // trashed individually beforehand

	if _, err := e.TrashAlbum(album.ID); err != nil {
		t.Fatalf("TrashAlbum: %v", err)
	}

	restored, err := e.RestoreAlbum(album.ID)
	if err != nil {
		t.Fatalf("RestoreAlbum: %v", err)
	}
	// restore cascades unconditionally, including the individually trashed photo
	if restored != 3 {
		t.Errorf("restored = %d, want 3", restored)
	}

	gotAlbum := getAlbum(t, e.DB, album.ID)
	if gotAlbum.IsDeleted || gotAlbum.DeletedAt != nil {
		t.Fatalf("album not restored: %+v", gotAlbum)
	}
	for _, id := range []uint{p1.ID, p2.ID, p3.ID} {
		photo := getPhoto(t, e.DB, id)
		if photo.IsDeleted || photo.DeletedAt != nil {
			t.Errorf("photo %d not restored: is_deleted=%v deleted_at=%v", id, photo.IsDeleted, photo.DeletedAt)
		}
	}
}

func TestRestoreAlbumRequiresTrashed(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "active")
	if _, err := e.RestoreAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("RestoreAlbum on active album: err = %v, want ErrRecordNotFound", err)
	}
}

func TestTrashPhotoTwiceIsNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "single")
	photo := seedPhoto(t, e.DB, album.ID, "once.jpg", 0, 100)

	trashed, err := e.TrashPhoto(photo.ID)
	if err != nil {
		t.Fatalf("first TrashPhoto: %v", err)
	}
	firstDeletedAt := *trashed.DeletedAt

	if _, err := e.TrashPhoto(photo.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second TrashPhoto: err = %v, want ErrRecordNotFound", err)
	}

	got := getPhoto(t, e.DB, photo.ID)
	if got.DeletedAt == nil || *got.DeletedAt != firstDeletedAt {
		t.Errorf("deleted_at changed on failed second trash: %v, want %d", got.DeletedAt, firstDeletedAt)
	}
}

func TestRestorePhotoUnderTrashedAlbum(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "trashed-parent")
	photo := seedPhoto(t, e.DB, album.ID, "stray.jpg", 0, 100)

	if _, err := e.TrashAlbum(album.ID); err != nil {
		t.Fatalf("TrashAlbum: %v", err)
	}
	if _, err := e.RestorePhoto(photo.ID); err != nil {
		t.Fatalf("RestorePhoto: %v", err)
	}

	// tolerated: active photo under a still-trashed album
	if got := getPhoto(t, e.DB, photo.ID); got.IsDeleted {
		t.Error("photo should be active after restore")
	}
	if got := getAlbum(t, e.DB, album.ID); !got.IsDeleted {
		t.Error("album lifecycle state must not change on photo restore")
	}
}

func TestPurgeAlbumIsTerminal(t *testing.T) {
	e, store := newTestEngine(t)
	album := seedAlbum(t, e.DB, "doomed")
	p1 := seedPhoto(t, e.DB, album.ID, "d1.jpg", 0, 100)
	p2 := seedPhoto(t, e.DB, album.ID, "d2.jpg", 0, 200)

	// only p1 has files on disk; p2's files are already absent
	for _, name := range media.ArtifactNames(p1) {
		path, _ := store.GetFullPath(name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("writing artifact %s: %v", name, err)
		}
	}

	if _, err := e.TrashAlbum(album.ID); err != nil {
		t.Fatalf("TrashAlbum: %v", err)
	}
	result, err := e.PurgeAlbum(album.ID)
	if err != nil {
		t.Fatalf("PurgeAlbum: %v", err)
	}
	if result.PhotosPurged != 2 {
		t.Errorf("PhotosPurged = %d, want 2", result.PhotosPurged)
	}
	if len(result.FileWarnings) != 0 {
		t.Errorf("FileWarnings = %v, want none (absent files are success)", result.FileWarnings)
	}

	// purge is terminal: every further operation on the id is NotFound
	if _, err := e.TrashAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("TrashAlbum after purge: err = %v", err)
	}
	if _, err := e.RestoreAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("RestoreAlbum after purge: err = %v", err)
	}
	if _, err := e.PurgeAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("PurgeAlbum after purge: err = %v", err)
	}

	var count int64
	e.DB.Model(&models.Photo{}).Where("album_id = ?", album.ID).Count(&count)
	if count != 0 {
		t.Errorf("surviving photo rows after album purge: %d", count)
	}
	for _, id := range []uint{p1.ID, p2.ID} {
		if _, err := e.RestorePhoto(id); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("RestorePhoto(%d) after album purge: err = %v", id, err)
		}
	}
}

func TestPurgeAlbumRequiresTrashed(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "still-active")
	if _, err := e.PurgeAlbum(album.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("PurgeAlbum on active album: err = %v, want ErrRecordNotFound", err)
	}
}

func TestPurgePhotoClearsAndReassignsCover(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "covered")
	cover := seedPhoto(t, e.DB, album.ID, "cover.jpg", 10, 100)
	next := seedPhoto(t, e.DB, album.ID, "next.jpg", 5, 200)

	coverURL := e.Covers.PhotoURL(cover)
	if err := e.DB.Model(&models.Album{}).Where("id = ?", album.ID).
		Update("cover_image", coverURL).Error; err != nil {
		t.Fatalf("setting cover: %v", err)
	}

	if _, err := e.TrashPhoto(cover.ID); err != nil {
		t.Fatalf("TrashPhoto: %v", err)
	}
	// trashing alone leaves the stale cover in place
	if got := getAlbum(t, e.DB, album.ID); got.CoverImage != coverURL {
		t.Fatalf("cover changed on trash: %q", got.CoverImage)
	}

	if _, err := e.PurgePhoto(cover.ID); err != nil {
		t.Fatalf("PurgePhoto: %v", err)
	}

	got := getAlbum(t, e.DB, album.ID)
	if got.CoverImage != e.Covers.PhotoURL(next) {
		t.Errorf("cover = %q, want reassigned to %q", got.CoverImage, e.Covers.PhotoURL(next))
	}
}

func TestPurgePhotoRequiresTrashed(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "guarded")
	photo := seedPhoto(t, e.DB, album.ID, "guarded.jpg", 0, 100)
	if _, err := e.PurgePhoto(photo.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("PurgePhoto on active photo: err = %v, want ErrRecordNotFound", err)
	}
}

func TestEmptyTrashPurgesEverythingTrashed(t *testing.T) {
	e, _ := newTestEngine(t)

	a1 := seedAlbum(t, e.DB, "bin1")
	seedPhoto(t, e.DB, a1.ID, "b1.jpg", 0, 100)
	seedPhoto(t, e.DB, a1.ID, "b2.jpg", 0, 200)
	seedPhoto(t, e.DB, a1.ID, "b3.jpg", 0, 300)
	a2 := seedAlbum(t, e.DB, "bin2")
	seedPhoto(t, e.DB, a2.ID, "b4.jpg", 0, 100)
	seedPhoto(t, e.DB, a2.ID, "b5.jpg", 0, 200)

	keep := seedAlbum(t, e.DB, "keep")
	kept := seedPhoto(t, e.DB, keep.ID, "keep.jpg", 0, 100)

	if _, err := e.TrashAlbum(a1.ID); err != nil {
		t.Fatalf("TrashAlbum(a1): %v", err)
	}
	if _, err := e.TrashAlbum(a2.ID); err != nil {
		t.Fatalf("TrashAlbum(a2): %v", err)
	}

	result, err := e.EmptyTrash()
	if err != nil {
		t.Fatalf("EmptyTrash: %v", err)
	}
	if result.AlbumsPurged != 2 {
		t.Errorf("AlbumsPurged = %d, want 2", result.AlbumsPurged)
	}
	if result.PhotosPurged != 5 {
		t.Errorf("PhotosPurged = %d, want 5", result.PhotosPurged)
	}
	// none of the 5 photos ever had files on disk
	if len(result.FileWarnings) != 0 {
		t.Errorf("FileWarnings = %v, want none", result.FileWarnings)
	}

	if got := getAlbum(t, e.DB, keep.ID); got.IsDeleted {
		t.Error("active album must survive EmptyTrash")
	}
	if got := getPhoto(t, e.DB, kept.ID); got.IsDeleted {
		t.Error("active photo must survive EmptyTrash")
	}

	var albums, photos int64
	e.DB.Model(&models.Album{}).Count(&albums)
	e.DB.Model(&models.Photo{}).Count(&photos)
	if albums != 1 || photos != 1 {
		t.Errorf("remaining rows = %d albums, %d photos, want 1 and 1", albums, photos)
	}
}

func TestEmptyTrashOnEmptyBin(t *testing.T) {
	e, _ := newTestEngine(t)
	result, err := e.EmptyTrash()
	if err != nil {
		t.Fatalf("EmptyTrash: %v", err)
	}
	if result.AlbumsPurged != 0 || result.PhotosPurged != 0 {
		t.Errorf("EmptyTrash on empty bin = %+v, want zero counts", result)
	}
}
