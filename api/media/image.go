package media

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"path"
	"strings"

	"yatube/api/utils/fileformat"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// webp uploads decode through image.Decode
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize = 5 << 20
	// MaxImagePixels caps the decoded size; a small compressed file can
	// declare a huge canvas.
	MaxImagePixels = 40_000_000

	ThumbWidth  = 960
	ThumbHeight = 339

	postsPrefix  = "posts/"
	thumbsPrefix = "posts/thumbs/"
)

var (
	ErrNotImage = errors.New("uploaded file is not an image")
	ErrTooLarge = errors.New("uploaded image is too large")
)

// Upload is a validated image ready to be written to a Store.
type Upload struct {
	Key         string
	ContentType string
	Data        []byte
	Thumb       []byte
}

// Process validates the upload as a decodable image and renders the
// thumbnail shown in post listings.
func Process(r io.Reader, filename string) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNotImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrNotImage
	}
	thumb, err := renderThumb(img)
	if err != nil {
		return nil, err
	}
	return &Upload{
		Key:         postsPrefix + fileformat.UniqueFormat(filename),
		ContentType: contentType,
		Data:        data,
		Thumb:       thumb,
	}, nil
}

func renderThumb(img image.Image) ([]byte, error) {
	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, errors.Wrap(err, "encode thumbnail")
	}
	return buf.Bytes(), nil
}

// ThumbKey derives the thumbnail key of an original image key.
func ThumbKey(key string) string {
	if key == "" {
		return ""
	}
	base := path.Base(key)
	return thumbsPrefix + strings.TrimSuffix(base, path.Ext(base)) + ".jpg"
}

// Save writes the original and its thumbnail.
func Save(ctx context.Context, store Store, up *Upload) error {
	if err := store.Save(ctx, up.Key, up.Data, up.ContentType); err != nil {
		return err
	}
	return store.Save(ctx, ThumbKey(up.Key), up.Thumb, "image/jpeg")
}

// Remove deletes the original and its thumbnail.
func Remove(ctx context.Context, store Store, key string) error {
	if key == "" {
		return nil
	}
	if err := store.Delete(ctx, key); err != nil {
		return err
	}
	return store.Delete(ctx, ThumbKey(key))
}
