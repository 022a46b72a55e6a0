// Package uploads stores user images on local disk.
package uploads

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vytor/lingoplay/internal/logger"
)

// URLPrefix is the public path images are served under.
const URLPrefix = "/uploads/"

var (
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrUnsupportedType = errors.New("invalid file type, only JPEG, PNG and GIF are allowed")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Store writes uploads under dir with generated names.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates dir if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string { return s.dir }
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save sniffs the image type from its first bytes, writes it under a random
// name and returns its public URL.
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("uploads")

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowedTypes[contentType]
	if !ok {
		log.Debug("rejected upload with content type %s", contentType)
		return "", ErrUnsupportedType
	}

	name := "image-" + uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("failed to create upload file: %v", err)
		return "", err
	}

	n, err := io.Copy(f, io.LimitReader(br, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if !errors.Is(err, ErrTooLarge) {
			log.Error("failed to write upload: %v", err)
		}
		return "", err
	}

	log.Info("stored upload %s (%d bytes, %s)", name, n, contentType)
	return URLPrefix + name, nil
}
