package lifecycle

import (
	"testing"

	"github.com/camden-git/photovaultbackend/models"
)

func TestResolveAssignsHighestSortTuple(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "pick")
	seedPhoto(t, e.DB, album.ID, "old-5.jpg", 5, 100)
	newer := seedPhoto(t, e.DB, album.ID, "new-5.jpg", 5, 200)
	trashed := seedPhoto(t, e.DB, album.ID, "top-10.jpg", 10, 50)
	trashRow(t, e.DB, &models.Photo{}, trashed.ID, 9999)

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// the trashed photo has the highest sort_order but is not eligible; the
	// tie between the two active photos breaks on created_at DESC
	got := getAlbum(t, e.DB, album.ID)
	if got.CoverImage != e.Covers.PhotoURL(newer) {
		t.Errorf("cover = %q, want %q", got.CoverImage, e.Covers.PhotoURL(newer))
	}
}

func TestResolvePrefersHigherSortOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "sorted")
	seedPhoto(t, e.DB, album.ID, "low.jpg", 1, 900)
	top := seedPhoto(t, e.DB, album.ID, "high.jpg", 10, 100)

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := getAlbum(t, e.DB, album.ID); got.CoverImage != e.Covers.PhotoURL(top) {
		t.Errorf("cover = %q, want %q", got.CoverImage, e.Covers.PhotoURL(top))
	}
}

func TestResolveNeverOverwritesExistingCover(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "stale")
	seedPhoto(t, e.DB, album.ID, "candidate.jpg", 10, 100)

	stale := testBaseURL + "/uploads/long-gone.jpg"
	if err := e.DB.Model(&models.Album{}).Where("id = ?", album.ID).
		Update("cover_image", stale).Error; err != nil {
		t.Fatalf("setting stale cover: %v", err)
	}

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := getAlbum(t, e.DB, album.ID); got.CoverImage != stale {
		t.Errorf("cover = %q, want untouched %q", got.CoverImage, stale)
	}
}

func TestResolveLeavesEmptyCoverWithoutActivePhotos(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "empty")
	trashed := seedPhoto(t, e.DB, album.ID, "binned.jpg", 0, 100)
	trashRow(t, e.DB, &models.Photo{}, trashed.ID, 9999)

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := getAlbum(t, e.DB, album.ID); got.CoverImage != "" {
		t.Errorf("cover = %q, want empty", got.CoverImage)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	album := seedAlbum(t, e.DB, "twice")
	seedPhoto(t, e.DB, album.ID, "one.jpg", 0, 100)

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	first := getAlbum(t, e.DB, album.ID).CoverImage

	if err := e.Covers.Resolve(album.ID); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if got := getAlbum(t, e.DB, album.ID).CoverImage; got != first {
		t.Errorf("cover changed across idempotent calls: %q -> %q", first, got)
	}
}

func TestResolveMissingAlbumIsNoOp(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Covers.Resolve(424242); err != nil {
		t.Errorf("Resolve on missing album: err = %v, want nil", err)
	}
}
