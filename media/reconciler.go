package media

import (
	"fmt"
	"log"

	"github.com/camden-git/photovaultbackend/models"
)

// Reconciler removes the on-disk artifacts belonging to a purged photo.
//
// Disk state is strictly best-effort: a missing file counts as success, and a
// removal failure is reported as a warning rather than an error so the
// caller's database purge is never rolled back over an orphaned file.
type Reconciler struct {
	Store Store
}

// NewReconciler creates a new Reconciler over the given store
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{Store: store}
}

// ArtifactNames returns the stored filenames derived from a photo: the
// original, its thumbnail, and its preview variant. The preview is listed
// unconditionally; for small originals it simply never existed on disk and
// removal degrades to a no-op.
func ArtifactNames(photo *models.Photo) []string {
	return []string{
		photo.Filename,
		models.ThumbnailPrefix + photo.Filename,
		models.PreviewPrefix + photo.Filename,
	}
}

// ReconcileFiles attempts to remove every artifact of the photo
// independently and returns a warning per artifact that could not be removed
func (r *Reconciler) ReconcileFiles(photo *models.Photo) []string {
	var warnings []string
	for _, name := range ArtifactNames(photo) {
		if err := r.Store.Delete(name); err != nil {
			warning := fmt.Sprintf("failed to remove file %s for photo ID %d: %v", name, photo.ID, err)
			log.Printf("media.reconciler: %s", warning)
			warnings = append(warnings, warning)
		}
	}
	return warnings
}
