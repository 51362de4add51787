package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ikkim/hotel-admin-backend/internal/metrics"
	"github.com/ikkim/hotel-admin-backend/internal/storage"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

var ErrStorageUnavailable = errors.New("image storage is not configured")

// sniffLen is how many leading bytes decide the content type
const sniffLen = 512

// ImageFile is one uploaded file as received by a controller
type ImageFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// ImageService validates uploads against a policy and stores them
type ImageService interface {
	// Store checks every file first and stores nothing when one fails.
	// URLs are returned in input order.
	Store(ctx context.Context, policy upload.Policy, folder string, files []ImageFile) ([]string, error)
	Remove(ctx context.Context, urls []string)
}

type imageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) ImageService {
	return &imageService{store: store}
}

type checkedImage struct {
	file        ImageFile
	contentType string
	head        []byte
}

func (s *imageService) Store(ctx context.Context, policy upload.Policy, folder string, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if err := policy.CheckCount(len(files)); err != nil {
		metrics.ObserveUpload(policy.Entity, "rejected")
		return nil, err
	}

	checked := make([]checkedImage, 0, len(files))
	for _, f := range files {
		head, err := readHead(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Filename, err)
		}
		contentType := upload.SniffType(head)
		if err := policy.CheckFile(f.Filename, contentType, f.Size); err != nil {
			metrics.ObserveUpload(policy.Entity, "rejected")
			logger.Warn("Image rejected", map[string]interface{}{
				"entity":       policy.Entity,
				"filename":     f.Filename,
				"content_type": contentType,
				"size":         f.Size,
			})
			return nil, err
		}
		checked = append(checked, checkedImage{file: f, contentType: contentType, head: head})
	}

	urls := make([]string, 0, len(checked))
	for _, img := range checked {
		url, err := s.save(ctx, folder, img)
		if err != nil {
			metrics.ObserveUpload(policy.Entity, "failed")
			logger.Error("Failed to store image", err, map[string]interface{}{
				"entity":   policy.Entity,
				"filename": img.file.Filename,
			})
			s.Remove(ctx, urls)
			return nil, err
		}
		metrics.ObserveUpload(policy.Entity, "stored")
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *imageService) save(ctx context.Context, folder string, img checkedImage) (string, error) {
	rc, err := img.file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return s.store.Save(ctx, folder, img.contentType, rc, img.file.Size)
}

// Remove deletes stored images, logging failures
func (s *imageService) Remove(ctx context.Context, urls []string) {
	if s.store == nil {
		return
	}
	for _, url := range urls {
		if err := s.store.Delete(ctx, url); err != nil {
			logger.Warn("Failed to delete stored image", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}
}

func readHead(f ImageFile) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, rc, sniffLen); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf.Bytes(), nil
}
