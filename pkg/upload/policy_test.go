package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_CheckFile(t *testing.T) {
	tests := []struct {
		name        string
		policy      Policy
		contentType string
		size        int64
		wantErr     error
	}{
		{"hotel jpeg", HotelImages, "image/jpeg", 500 * 1024, nil},
		{"hotel png at limit", HotelImages, "image/png", 2 * MB, nil},
		{"hotel over limit", HotelImages, "image/png", 2*MB + 1, ErrFileTooLarge},
		{"hotel gif", HotelImages, "image/gif", 1024, ErrUnsupportedType},
		{"hotel webp", HotelImages, "image/webp", 1024, ErrUnsupportedType},
		{"type with params", HotelImages, "Image/JPEG; charset=binary", 1024, nil},
		{"room 1.5MB", RoomImages, "image/jpeg", MB + MB/2, ErrFileTooLarge},
		{"room at limit", RoomImages, "image/jpeg", MB, nil},
		{"empty file", RoomImages, "image/png", 0, ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CheckFile("photo", tt.contentType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var fe *FileError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "photo", fe.Filename)
		})
	}
}

func TestPolicy_CheckCount(t *testing.T) {
	assert.NoError(t, RoomImages.CheckCount(3))
	assert.ErrorIs(t, RoomImages.CheckCount(4), ErrTooManyFiles)
	assert.NoError(t, HotelImages.CheckCount(20))
}

func TestSniffType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	assert.Equal(t, MIMEPNG, SniffType(png))
	assert.Equal(t, MIMEJPEG, SniffType(jpeg))
	assert.Equal(t, "text/plain", SniffType([]byte("hello")))
}

func TestFileError_Message(t *testing.T) {
	err := RoomImages.CheckFile("big.jpg", MIMEJPEG, 3*MB)
	assert.EqualError(t, err, "big.jpg: image exceeds the size limit (max 1MB)")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".png", Extension("image/png"))
	assert.Equal(t, "", Extension("image/gif"))
}
