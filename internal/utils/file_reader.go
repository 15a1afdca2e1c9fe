package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/txsync/internal/errors"
)

// FileReader reads descriptor and go.mod files, caching contents until the
// file changes on disk
type FileReader struct {
	contents *FileCache[[]byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contents: NewFileCache[[]byte](),
	}
}

// ReadFile returns the contents of a file. Failures are FileSystemErrorCode
// errors carrying the path.
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return nil, errors.WrapFileSystemError("read", filePath, err)
	}
	cleanPath := filepath.Clean(filePath)

	if cached, ok := fr.contents.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	// a failed stat only costs the cache entry
	_ = fr.contents.Set(cleanPath, content)
	return content, nil
}

// Exists reports whether path names a regular file
func (fr *FileReader) Exists(filePath string) bool {
	info, err := os.Stat(filepath.Clean(filePath))
	return err == nil && info.Mode().IsRegular()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contents.Delete(filepath.Clean(filePath))
}

// CachedFiles returns the number of files currently cached
func (fr *FileReader) CachedFiles() int {
	return fr.contents.Size()
}
