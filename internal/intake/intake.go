// Package intake stores an uploaded document in a uniquely named temporary
// file for the lifetime of one request.
package intake

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"invoice-extractor/internal/helper"
)

const filePrefix = "invoice-"

// ErrNoFile is returned when there is nothing to accept.
var ErrNoFile = errors.New("no file uploaded")

// TempFile is a scoped handle to an accepted upload. Call Release when done.
type TempFile struct {
	Path string
	Size int64

	once sync.Once
}

// Accept copies r verbatim into a new file under dir (os.TempDir() when empty).
func Accept(r io.Reader, dir string) (*TempFile, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if dir == "" {
		dir = os.TempDir()
	}
	if err := helper.CreateFolder(dir); err != nil {
		return nil, err
	}

	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, filePrefix+id+".pdf")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	log.Debug().Str("path", path).Int64("bytes", n).Msg("Accepted upload")
	return &TempFile{Path: path, Size: n}, nil
}

// Release deletes the file. Safe to call more than once and on nil.
func (t *TempFile) Release() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		if err := os.Remove(t.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", t.Path).Msg("Failed to remove temp file")
			return
		}
		log.Debug().Str("path", t.Path).Msg("Released upload")
	})
}
