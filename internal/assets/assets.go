// Package assets stores card images uploaded from the dashboard and returns
// the path the site uses to load them.
package assets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

var assetsLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	assetsLogger = l
}

// Store keeps image bytes and answers with their public URL.
type Store interface {
	Put(ctx context.Context, data []byte, ext, contentType string) (string, error)
}

// Check rejects data that is empty, larger than maxBytes, not an image or an
// SVG, and returns the detected type.
func Check(data []byte, maxBytes int) (*mimetype.MIME, error) {
	const op = "upload image"
	if len(data) == 0 {
		return nil, errs.Validation(op, "empty upload")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, errs.Validation(op, fmt.Sprintf("%s (%d > %d bytes)", config.ErrImageTooLarge, len(data), maxBytes))
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, errs.Validation(op, config.ErrImageNotAnImage+": "+mime.String())
	}
	if mime.Is("image/svg+xml") {
		return nil, errs.Validation(op, config.ErrImageScriptable)
	}
	return mime, nil
}

type Uploader struct {
	store    Store
	maxBytes int
}

func NewUploader(store Store, maxBytes int) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes}
}

// Upload validates data and stores it. name is the client's file name and is
// only logged; the stored name is chosen by the store.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	mime, err := Check(data, u.maxBytes)
	if err != nil {
		return "", err
	}

	url, err := u.store.Put(ctx, data, mime.Extension(), mime.String())
	if err != nil {
		assetsLogger.Error().Err(err).Str("name", name).Msg("Error storing image")
		return "", errs.Transport("upload image", err)
	}

	assetsLogger.Info().Str("name", name).Str("type", mime.String()).Int("bytes", len(data)).Str("url", url).Msg("Stored image")
	return url, nil
}

// NewStore builds the store named by c.Backend. S3 credentials come from
// FOLIO_S3_ACCESS_KEY_ID and FOLIO_S3_SECRET_ACCESS_KEY.
func NewStore(ctx context.Context, c config.AssetsConfig) (Store, error) {
	switch c.Backend {
	case "", "fs":
		return NewFSStore(c.Dir, c.URLPrefix)
	case "s3":
		return NewS3Store(ctx, c, os.Getenv("FOLIO_S3_ACCESS_KEY_ID"), os.Getenv("FOLIO_S3_SECRET_ACCESS_KEY"))
	default:
		return nil, fmt.Errorf("unknown assets backend %q", c.Backend)
	}
}
