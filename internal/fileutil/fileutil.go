// Package fileutil provides small file helpers shared by the pipeline stages.
package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Entry describes a regular file found by NewestFile.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// NewestFile returns the most recently modified regular file in dir whose
// name has one of the given extensions (without leading dot, case
// insensitive). Files modified before the since cutoff are ignored, as are
// files the exclude predicate rejects (nil excludes nothing). Returns nil
// when nothing qualifies.
//
// This is a discovery heuristic for tools that pick their own output names;
// it is race-prone when other writers share the directory, so callers keep
// the search window as tight as possible.
func NewestFile(dir string, exts []string, since time.Time, exclude func(name string) bool) (*Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var newest *Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if exclude != nil && exclude(item.Name()) {
			continue
		}
		if len(allowed) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(item.Name()), "."))
			if _, ok := allowed[ext]; !ok {
				continue
			}
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		if !since.IsZero() && info.ModTime().Before(since) {
			continue
		}
		if newest == nil || info.ModTime().After(newest.ModTime) {
			newest = &Entry{
				Path:    filepath.Join(dir, item.Name()),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
		}
	}
	return newest, nil
}
