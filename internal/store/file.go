package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileArchive writes one JSON file per finished call under a directory. Used
// when no database is configured.
type FileArchive struct {
	dir string
}

func NewFileArchive(dir string) *FileArchive {
	return &FileArchive{dir: dir}
}

func (f *FileArchive) SaveCall(ctx context.Context, rec CallRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.CallID == "" {
		return fmt.Errorf("call_id is required")
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	path := f.path(rec.CallID)
	// Call records carry personal details; keep them private to the service user.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GetCall loads a record written by SaveCall. Returns nil when absent.
func (f *FileArchive) GetCall(ctx context.Context, callID string) (*CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path(callID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var rec CallRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (f *FileArchive) path(callID string) string {
	return filepath.Join(f.dir, url.PathEscape(callID)+".json")
}
