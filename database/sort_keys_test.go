package database

import (
	"reflect"
	"testing"
)

func TestAlbumOrderClauses(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  string
		order   string
		want    []string
		wantErr bool
	}{
		{"default", "default", "", []string{"sort_order DESC", "updated_at DESC"}, false},
		{"empty means default", "", "desc", []string{"sort_order DESC", "updated_at DESC"}, false},
		{"name asc", SortName, "asc", []string{"name ASC"}, false},
		{"updated_at implicit desc", SortUpdatedAt, "", []string{"updated_at DESC"}, false},
		{"unknown key rejected", "banner_image_path", "desc", nil, true},
		{"unknown direction rejected", SortName, "sideways", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AlbumOrderClauses(tt.sortBy, tt.order)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AlbumOrderClauses(%q, %q) error = %v, wantErr %v", tt.sortBy, tt.order, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AlbumOrderClauses(%q, %q) = %v, want %v", tt.sortBy, tt.order, got, tt.want)
			}
		})
	}
}

func TestPhotoOrderClauses(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  string
		order   string
		want    []string
		wantErr bool
	}{
		{"default", "default", "", []string{"sort_order DESC", "created_at DESC"}, false},
		{"file_size asc", SortFileSize, "asc", []string{"file_size ASC"}, false},
		{"original_filename desc", SortOriginalFilename, "desc", []string{"original_filename DESC"}, false},
		{"natural filename sorts in memory", SortFilenameNat, "asc", nil, false},
		{"natural filename bad direction rejected", SortFilenameNat, "sideways", nil, true},
		{"album key not valid for photos", SortUpdatedAt, "desc", nil, true},
		{"arbitrary column rejected", "file_path", "desc", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PhotoOrderClauses(tt.sortBy, tt.order)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PhotoOrderClauses(%q, %q) error = %v, wantErr %v", tt.sortBy, tt.order, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PhotoOrderClauses(%q, %q) = %v, want %v", tt.sortBy, tt.order, got, tt.want)
			}
		})
	}
}
