package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/camden-git/photovaultbackend/models"
)

func newTestStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return store
}

func writeFile(t *testing.T, store *LocalStorage, name string) {
	t.Helper()
	path, err := store.GetFullPath(name)
	if err != nil {
		t.Fatalf("GetFullPath(%s): %v", name, err)
	}
	if err := os.WriteFile(path, []byte("fake image data"), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestReconcileFilesRemovesAllArtifacts(t *testing.T) {
	store := newTestStore(t)
	photo := &models.Photo{ID: 1, Filename: "abc123.jpg", FileSize: 2048}

	for _, name := range ArtifactNames(photo) {
		writeFile(t, store, name)
	}

	warnings := NewReconciler(store).ReconcileFiles(photo)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	for _, name := range ArtifactNames(photo) {
		path, _ := store.GetFullPath(name)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed, stat err = %v", name, err)
		}
	}
}

func TestReconcileFilesTreatsAbsentFilesAsSuccess(t *testing.T) {
	store := newTestStore(t)
	photo := &models.Photo{ID: 2, Filename: "never-written.jpg", FileSize: 512}

	warnings := NewReconciler(store).ReconcileFiles(photo)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for absent files, got %v", warnings)
	}
}

func TestReconcileFilesRemovesRemainingArtifactsWhenSomeAreMissing(t *testing.T) {
	store := newTestStore(t)
	photo := &models.Photo{ID: 3, Filename: "partial.jpg", FileSize: 1024}

	// only the thumbnail exists
	writeFile(t, store, models.ThumbnailPrefix+photo.Filename)

	warnings := NewReconciler(store).ReconcileFiles(photo)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	path, _ := store.GetFullPath(models.ThumbnailPrefix + photo.Filename)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected thumbnail to be removed, stat err = %v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetFullPath(filepath.Join("..", "escape.jpg")); err == nil {
		t.Fatal("expected traversal path to be rejected")
	}
}
