package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store defines the interface for saving, retrieving, and deleting uploaded
// photo files and their derived variants
type Store interface {
	// Save stores data from reader under the given filename
	// returns the absolute path the file was written to
	Save(filename string, data io.Reader) (string, error)
	// Get retrieves a reader for a stored file
	Get(filename string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes a stored file; an already-absent file is not an error
	Delete(filename string) error
	// GetFullPath returns the absolute filesystem path for a stored filename
	GetFullPath(filename string) (string, error)
}

// LocalStorage implements the Store interface using a single local directory
type LocalStorage struct {
	basePath string // absolute path to UPLOADS_PATH
}

// NewLocalStorage creates a new local filesystem store rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// BasePath returns the absolute root directory of the store.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes data to basePath/filename
func (ls *LocalStorage) Save(filename string, data io.Reader) (string, error) {
	fullSavePath, err := ls.GetFullPath(filename)
	if err != nil {
		return "", err
	}

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved asset to %s", fullSavePath)
	return fullSavePath, nil
}

func (ls *LocalStorage) Get(filename string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(filename)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", filename, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", filename, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", filename, err)
	}

	return file, info, nil
}

// Delete removes a stored file, ignoring "not exist" errors
func (ls *LocalStorage) Delete(filename string) error {
	fullPath, err := ls.GetFullPath(filename)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", filename, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs a traversal check
func (ls *LocalStorage) GetFullPath(filename string) (string, error) {
	cleanName := filepath.Clean(filename)

	fullPath := filepath.Join(ls.basePath, cleanName)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", filename, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", filename)
	}

	return absFullPath, nil
}
