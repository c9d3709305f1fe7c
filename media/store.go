package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("asset not found")

// Store saves, opens and removes uploaded photo assets.
type Store interface {
	// Save writes data under the asset type's directory and returns the slash separated
	// path relative to the storage root. An empty filename gets a random one with ext.
	Save(assetType AssetType, dirHint, filename, ext string, data io.Reader) (string, error)
	Get(relativePath string) (io.ReadCloser, os.FileInfo, error)
	Delete(relativePath string) error
	GetFullPath(relativePath string) (string, error)
	EnsureDir(assetType AssetType) (string, error)
}

// LocalStorage keeps assets on the local filesystem below one root directory.
type LocalStorage struct {
	basePath string
	dirs     map[AssetType]string
}

func NewLocalStorage(basePath string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	dirs := make(map[AssetType]string, len(subDirs))
	for assetType, subDir := range subDirs {
		full := filepath.Join(absBasePath, subDir)
		if !within(absBasePath, full) {
			return nil, fmt.Errorf("subdirectory '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		dirs[assetType] = full
	}

	slog.Info("media store initialized", "component", "media", "path", absBasePath)
	return &LocalStorage{basePath: absBasePath, dirs: dirs}, nil
}

func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

func (ls *LocalStorage) EnsureDir(assetType AssetType) (string, error) {
	dir, ok := ls.dirs[assetType]
	if !ok {
		return "", fmt.Errorf("asset type '%s' is not configured", assetType)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dir, err)
	}
	return dir, nil
}

func (ls *LocalStorage) Save(assetType AssetType, dirHint, filename, ext string, data io.Reader) (string, error) {
	targetDir, err := ls.EnsureDir(assetType)
	if err != nil {
		return "", err
	}
	if dirHint != "" {
		sub := filepath.Join(targetDir, dirHint)
		if !within(targetDir, sub) {
			return "", fmt.Errorf("invalid directory hint '%s'", dirHint)
		}
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return "", fmt.Errorf("failed to create sub-directory '%s': %w", sub, err)
		}
		targetDir = sub
	}

	if filename == "" {
		filename = uuid.NewString() + ext
	}
	fullPath := filepath.Join(targetDir, filepath.Base(filename))

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullPath, err)
	}
	if _, err := io.Copy(out, data); err != nil {
		out.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close '%s': %w", fullPath, err)
	}

	rel, err := filepath.Rel(ls.basePath, fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path for '%s': %w", fullPath, err)
	}
	slog.Debug("media asset saved", "component", "media", "path", fullPath)
	return filepath.ToSlash(rel), nil
}

func (ls *LocalStorage) Get(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrAssetNotFound, relativePath)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", relativePath, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", relativePath, err)
	}
	return file, info, nil
}

// Delete removes an asset. A missing file is not an error.
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset '%s': %w", relativePath, err)
	}
	return nil
}

// GetFullPath resolves relativePath below the storage root and refuses traversal out of it.
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	full, err := filepath.Abs(filepath.Join(ls.basePath, filepath.Clean("/"+relativePath)))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", relativePath, err)
	}
	if !within(ls.basePath, full) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", relativePath)
	}
	return full, nil
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
