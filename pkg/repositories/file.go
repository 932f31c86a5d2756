package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cbodonnell/cardquest/pkg/repositories/models"
	"github.com/klauspost/compress/zstd"
)

// FileRepository keeps the progress of every player in one JSON document.
// Paths ending in .zst are zstd compressed. Saves write a temporary file and
// rename it over the previous one.
type FileRepository struct {
	path     string
	compress bool
	lock     sync.Mutex
}

type fileDocument struct {
	Players map[string]*models.Progress `json:"players"`
}

func NewFileRepository(path string) (Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("file repository path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return &FileRepository{
		path:     path,
		compress: strings.HasSuffix(path, ".zst"),
	}, nil
}

func (r *FileRepository) Close(ctx context.Context) error {
	return nil
}

func (r *FileRepository) LoadProgress(ctx context.Context, playerID string) (*models.Progress, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}

	progress, ok := doc.Players[playerID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return progress.Copy(), nil
}

func (r *FileRepository) SaveProgress(ctx context.Context, progress *models.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	doc.Players[progress.PlayerID] = progress.Copy()

	return r.write(doc)
}

func (r *FileRepository) read() (*fileDocument, error) {
	doc := &fileDocument{}

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc.Players = make(map[string]*models.Progress)
			return doc, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if r.compress {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		reader = dec
	}

	if err := json.NewDecoder(reader).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	if doc.Players == nil {
		doc.Players = make(map[string]*models.Progress)
	}

	return doc, nil
}

func (r *FileRepository) write(doc *fileDocument) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := r.encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepository) encode(w io.Writer, doc *fileDocument) error {
	if !r.compress {
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode progress: %w", err)
		}
		return nil
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(doc); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}
