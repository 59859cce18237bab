package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore writes blobs under Dir and returns URLs below PublicPath,
// which the HTTP layer serves statically.
type DiskStore struct {
	Dir        string
	PublicPath string
}

func NewDiskStore(dir, publicPath string) *DiskStore {
	return &DiskStore{Dir: dir, PublicPath: publicPath}
}

func (s *DiskStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)
	savePath := filepath.Join(s.Dir, filename)

	out, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		_ = os.Remove(savePath)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(savePath)
		return "", err
	}

	// A write that raced the deadline still counts as failed; remove the
	// file so the caller never sees a URL it must clean up twice.
	if err := ctx.Err(); err != nil {
		_ = os.Remove(savePath)
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.PublicPath, filename), nil
}

func (s *DiskStore) Delete(_ context.Context, url string) error {
	if url == "" {
		return nil
	}
	path := filepath.Join(s.Dir, filepath.Base(url))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
