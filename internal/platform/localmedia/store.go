package localmedia

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const DefaultUploadDir = "/tmp/uploads"

// Store keeps uploaded source documents on local disk.
type Store interface {
	// Save writes data under a sanitized, unique file name and returns its path.
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, path string) error
	Root() string
}

type store struct {
	log  *logger.Logger
	root string
}

func New(log *logger.Logger, root string) Store {
	root = strings.TrimSpace(root)
	if root == "" {
		root = DefaultUploadDir
	}
	return &store{log: log.With("service", "UploadStore"), root: root}
}

func (s *store) Root() string { return s.root }

func (s *store) Save(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	h := sha256.Sum256(data)
	name := fmt.Sprintf("%s_%s_%s", uuid.NewString()[:8], hex.EncodeToString(h[:])[:8], SanitizeFilename(filename))
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	s.log.Debug("upload saved", "path", path, "bytes", len(data))
	return path, nil
}

func (s *store) Remove(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q is outside the upload dir", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}
