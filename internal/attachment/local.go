package attachment

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// LocalResolver writes attachments under dir and serves them below baseURL.
// Used when no Cloudinary account is configured.
type LocalResolver struct {
	dir     string
	baseURL string
}

func NewLocalResolver(dir, baseURL string) (*LocalResolver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalResolver{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (r *LocalResolver) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + extension(data)
	tmp := filepath.Join(r.dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store attachment: %w", err)
	}

	return r.baseURL + "/" + name, nil
}

func extension(data []byte) string {
	ct := http.DetectContentType(data)
	if ext, ok := extensions[ct]; ok {
		return ext
	}
	return ".bin"
}
