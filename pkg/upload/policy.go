// Package upload holds the image upload rules shared by the server and the
// console client, so both reject the same files for the same reasons.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"

	MB int64 = 1 << 20

	// FilesField is the multipart field name every image is sent under
	FilesField = "files"
)

var (
	ErrUnsupportedType = errors.New("only JPEG and PNG images are allowed")
	ErrFileTooLarge    = errors.New("image exceeds the size limit")
	ErrTooManyFiles    = errors.New("too many images")
	ErrEmptyFile       = errors.New("image is empty")
)

// Policy describes which images an entity accepts
type Policy struct {
	Entity       string
	MaxBytes     int64
	MaxFiles     int // 0 means unlimited
	AllowedTypes []string
}

var (
	// HotelImages is checked when images are selected for a hotel
	HotelImages = Policy{Entity: "hotel", MaxBytes: 2 * MB, AllowedTypes: []string{MIMEJPEG, MIMEPNG}}

	// RoomImages is checked when a room is submitted; any violation aborts the submission
	RoomImages = Policy{Entity: "room", MaxBytes: 1 * MB, MaxFiles: 3, AllowedTypes: []string{MIMEJPEG, MIMEPNG}}
)

// FileError ties a rule violation to the offending file
type FileError struct {
	Filename string
	Err      error
	Limit    int64
}

func (e *FileError) Error() string {
	if errors.Is(e.Err, ErrFileTooLarge) && e.Limit > 0 {
		return fmt.Sprintf("%s: %s (max %s)", e.Filename, e.Err.Error(), HumanSize(e.Limit))
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Err.Error())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// CheckType fails unless contentType is one of the allowed types
func (p Policy) CheckType(contentType string) error {
	ct := NormalizeType(contentType)
	for _, allowed := range p.AllowedTypes {
		if ct == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}

// CheckSize fails when size is zero or above MaxBytes
func (p Policy) CheckSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// CheckCount fails when n exceeds MaxFiles
func (p Policy) CheckCount(n int) error {
	if p.MaxFiles > 0 && n > p.MaxFiles {
		return fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyFiles, n, p.MaxFiles)
	}
	return nil
}

// CheckFile applies the type and size rules to one file
func (p Policy) CheckFile(filename, contentType string, size int64) error {
	if err := p.CheckType(contentType); err != nil {
		return &FileError{Filename: filename, Err: err}
	}
	if err := p.CheckSize(size); err != nil {
		return &FileError{Filename: filename, Err: err, Limit: p.MaxBytes}
	}
	return nil
}

// NormalizeType lowercases a MIME type and drops parameters
func NormalizeType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// SniffType detects the MIME type from the first bytes of a file
func SniffType(head []byte) string {
	return NormalizeType(http.DetectContentType(head))
}

// Extension returns the canonical file extension for an allowed type
func Extension(contentType string) string {
	switch NormalizeType(contentType) {
	case MIMEJPEG:
		return ".jpg"
	case MIMEPNG:
		return ".png"
	}
	return ""
}

func HumanSize(n int64) string {
	if n%MB == 0 {
		return fmt.Sprintf("%dMB", n/MB)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/float64(MB))
}
