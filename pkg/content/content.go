// Package content resolves level content paths against a directory.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrContentNotFound = errors.New("content not found")

// DirLoader loads level content from files under a root directory.
type DirLoader struct {
	root string
}

func NewDirLoader(root string) *DirLoader {
	return &DirLoader{root: root}
}

// LoadContent checks that the content file exists and is a regular file.
func (l *DirLoader) LoadContent(ctx context.Context, contentPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := l.resolve(contentPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrContentNotFound, contentPath)
		}
		return fmt.Errorf("failed to stat content %s: %w", contentPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a file", ErrContentNotFound, contentPath)
	}

	return nil
}

func (l *DirLoader) resolve(contentPath string) (string, error) {
	if contentPath == "" {
		return "", fmt.Errorf("%w: empty path", ErrContentNotFound)
	}
	clean := filepath.Clean(filepath.FromSlash(contentPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the content directory", ErrContentNotFound, contentPath)
	}
	return filepath.Join(l.root, clean), nil
}
