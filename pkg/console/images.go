package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

// ImageFile is an image held in memory until the form is submitted
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f ImageFile) Size() int64 {
	return int64(len(f.Data))
}

// NewImageFile detects the content type from the data
func NewImageFile(name string, data []byte) ImageFile {
	return ImageFile{Name: name, ContentType: upload.SniffType(data), Data: data}
}

func ReadImageFile(path string) (ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, err
	}
	return NewImageFile(filepath.Base(path), data), nil
}

// Rejection explains why a selected file was left out
type Rejection struct {
	File   string
	Reason string
	Err    error
}

// SelectImages applies a policy at selection time: files breaking the type
// or size rule are excluded and reported, the rest are kept in order.
func SelectImages(policy upload.Policy, files []ImageFile) ([]ImageFile, []Rejection) {
	accepted := make([]ImageFile, 0, len(files))
	var rejected []Rejection
	for _, f := range files {
		if err := policy.CheckFile(f.Name, f.ContentType, f.Size()); err != nil {
			rejected = append(rejected, Rejection{File: f.Name, Reason: err.Error(), Err: err})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}

// checkSubmission validates files right before a payload is built. Any
// violation aborts the whole submission.
func checkSubmission(policy upload.Policy, files []ImageFile) error {
	if err := policy.CheckCount(len(files)); err != nil {
		return fmt.Errorf("%w: %d selected, at most %d allowed", ErrTooManyImages, len(files), policy.MaxFiles)
	}
	verr := &ValidationError{}
	for _, f := range files {
		err := policy.CheckFile(f.Name, f.ContentType, f.Size())
		switch {
		case err == nil:
		case errors.Is(err, upload.ErrFileTooLarge):
			return fmt.Errorf("%w: %s", ErrImageTooLarge, err.Error())
		default:
			verr.add(upload.FilesField, err.Error())
		}
	}
	return verr.orNil()
}
