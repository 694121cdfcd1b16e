package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // registers the WebP decoder

	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

// Image upload defaults
const (
	DefaultMaxImageBytes = 5 << 20
	DefaultMaxDimension  = 800
	// DefaultMaxPixels bounds the decoded size of an upload, about 160 MB as RGBA
	DefaultMaxPixels = 40_000_000
)

// allowedImageTypes maps accepted content types to the stored extension
var allowedImageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// ImageOptions bounds accepted uploads
type ImageOptions struct {
	MaxBytes     int64
	MaxDimension int
	// MaxPixels caps width*height as declared in the image header
	MaxPixels int64
	SubPath   string
}

// ImageUploader is the ImageSink over a FileStorage. Images larger than the
// bounding box are scaled down to fit it; smaller images are stored as sent.
type ImageUploader struct {
	storage FileStorage
	opts    ImageOptions
}

// NewImageUploader creates an ImageUploader, filling unset options with defaults
func NewImageUploader(storage FileStorage, opts ImageOptions) *ImageUploader {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxImageBytes
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &ImageUploader{storage: storage, opts: opts}
}

// Upload reads an image from r and returns its public URL. Failures caused
// by the content wrap apperrors.ErrInvalidImage.
func (u *ImageUploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.opts.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", apperrors.NewInvalidImageError("image file is empty")
	}
	if int64(len(data)) > u.opts.MaxBytes {
		return "", apperrors.NewInvalidImageError(fmt.Sprintf("image exceeds the %d byte limit", u.opts.MaxBytes))
	}

	mtype := mimetype.Detect(data)
	ext := ""
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed.mime) {
			ext = allowed.ext
			break
		}
	}
	if ext == "" {
		return "", apperrors.NewInvalidImageError("unsupported image format " + mtype.String())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, ext, err = u.fit(data, ext)
	if err != nil {
		return "", err
	}

	return u.storage.Save(data, u.opts.SubPath, ext)
}

// fit scales the image down to the bounding box, never up
func (u *ImageUploader) fit(data []byte, ext string) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.NewInvalidImageError("image could not be decoded")
	}
	if int64(cfg.Width)*int64(cfg.Height) > u.opts.MaxPixels {
		return nil, "", apperrors.NewInvalidImageError(fmt.Sprintf("image of %dx%d pixels is too large", cfg.Width, cfg.Height))
	}

	limit := u.opts.MaxDimension
	if cfg.Width <= limit && cfg.Height <= limit {
		return data, ext, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", apperrors.NewInvalidImageError("image could not be decoded")
	}
	resized := imaging.Fit(img, limit, limit, imaging.Lanczos)

	// there is no WebP encoder; resized WebP images are stored as PNG
	if ext == ".webp" {
		ext = ".png"
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, "", fmt.Errorf("no encoder for %s: %w", ext, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}

	logger.Debug().
		Int("width", cfg.Width).Int("height", cfg.Height).
		Int("newWidth", resized.Bounds().Dx()).Int("newHeight", resized.Bounds().Dy()).
		Msg("Image resized to fit bounds")
	return buf.Bytes(), ext, nil
}
