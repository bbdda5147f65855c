package models

import "testing"

func TestPhotoURLs(t *testing.T) {
	photo := Photo{Filename: "abc123.jpg", FileSize: 1024}
	base := "http://localhost:8080"

	if got := photo.PublicURL(base); got != "http://localhost:8080/uploads/abc123.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
	if got := photo.ThumbnailURL(base); got != "http://localhost:8080/uploads/thumb_abc123.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}

func TestPreviewURLFallsBackForSmallFiles(t *testing.T) {
	photo := Photo{Filename: "small.jpg", FileSize: PreviewSizeThreshold}
	base := "http://localhost:8080"

	if got := photo.PreviewURL(base); got != photo.PublicURL(base) {
		t.Errorf("expected preview URL to fall back to original, got %q", got)
	}
}

func TestPreviewURLForLargeFiles(t *testing.T) {
	photo := Photo{Filename: "large.jpg", FileSize: PreviewSizeThreshold + 1}
	base := "http://localhost:8080"

	want := "http://localhost:8080/uploads/preview_large.jpg"
	if got := photo.PreviewURL(base); got != want {
		t.Errorf("PreviewURL = %q, want %q", got, want)
	}
}
