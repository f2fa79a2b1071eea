// Package upload stores client-submitted images on disk and hands back
// URLs. The URLs travel through slice values as plain strings; the sync
// protocol never interprets them.
package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	syncerrors "github.com/pitstop/sync/errors"
	"github.com/pitstop/sync/logging"
)

// maxUploadBytes caps a single upload at 8 MiB.
const maxUploadBytes = 8 << 20

// Store saves uploads under a single directory.
type Store struct {
	dir    string
	logger *logrus.Entry
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir, logger: logging.NewLogger("upload")}, nil
}

// Dir returns the directory uploads are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the content to a uuid-named file, keeping the original
// extension, and returns the public path.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	fileName := uuid.NewString() + ext
	path := filepath.Join(s.dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	// Read one byte past the cap so an oversize upload is detected and
	// rejected rather than stored truncated.
	n, err := io.Copy(f, io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if n > maxUploadBytes {
		_ = os.Remove(path)
		return "", fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}
	return "/uploads/" + fileName, nil
}

// Handler accepts a multipart form with a "file" field and responds with
// {"url": "..."}.
func (s *Store) Handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := s.Save(header.Filename, file)
	if err != nil {
		s.logger.WithError(err).Warn("Upload rejected")
		uploadErr := syncerrors.UploadFailed(err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(uploadErr.ToJSON()))
		return
	}

	s.logger.WithField("url", url).Info("Stored upload")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"url": url})
}
