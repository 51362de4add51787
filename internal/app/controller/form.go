package controller

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

// DateLayout is the wire format of openingDate
const DateLayout = "2006-01-02"

// formReader collects field errors while reading a multipart form
type formReader struct {
	c      *gin.Context
	fields map[string]string
}

func newFormReader(c *gin.Context) *formReader {
	return &formReader{c: c}
}

func (f *formReader) fail(field, msg string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	f.fields[field] = msg
}

func (f *formReader) String(field string) string {
	return strings.TrimSpace(f.c.PostForm(field))
}

func (f *formReader) Int(field string) int {
	raw := f.String(field)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.fail(field, "must be an integer")
	}
	return n
}

func (f *formReader) Float(field string) float64 {
	raw := f.String(field)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.fail(field, "must be a number")
	}
	return n
}

func (f *formReader) Date(field string) *time.Time {
	raw := f.String(field)
	if raw == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		f.fail(field, "must be a date like 2024-01-31")
		return nil
	}
	return &d
}

// Strings returns every non-empty value of a repeated field
func (f *formReader) Strings(field string) []string {
	var out []string
	for _, v := range f.c.PostFormArray(field) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IDs reads a repeated or comma separated list of ids
func (f *formReader) IDs(field string) []uint {
	var out []uint
	for _, v := range f.c.PostFormArray(field) {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				f.fail(field, fmt.Sprintf("invalid id %q", part))
				continue
			}
			out = append(out, uint(id))
		}
	}
	return out
}

// Files returns the uploaded images, in form order
func (f *formReader) Files() []service.ImageFile {
	form, err := f.c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	headers := form.File[upload.FilesField]
	files := make([]service.ImageFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, imageFile(fh))
	}
	return files
}

func (f *formReader) Err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &service.ValidationError{Fields: f.fields}
}

func imageFile(fh *multipart.FileHeader) service.ImageFile {
	return service.ImageFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// pageParams reads page and pageSize; invalid values fall back to defaults
func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	return page, pageSize
}
