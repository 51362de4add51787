package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

// ImageStore persists uploaded images and returns their public URL
type ImageStore interface {
	Save(ctx context.Context, folder, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectKey builds a collision-free key such as hotels/12/3f2c...9a.jpg
func objectKey(folder, contentType string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), upload.Extension(contentType))
}

// keyFromURL strips baseURL from a URL produced by the same store
func keyFromURL(baseURL, url string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
