// Package storage defines the product image store and the checks every
// backend applies before accepting an upload.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
)

// Asset describes a stored image. PublicID is the handle used to delete it.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

// ImageStore uploads and removes product images.
type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// Image is an upload that passed validation.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ReadImage buffers at most maxBytes from r and verifies the content sniffs
// as an image.
func ReadImage(r io.Reader, maxBytes int64) (*Image, error) {
	if r == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "read image")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}
	if maxBytes > 0 && n > maxBytes {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "image exceeds %d bytes", maxBytes)
	}

	mt := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported image type %s", mt.String())
	}
	return &Image{Data: buf.Bytes(), ContentType: mt.String(), Extension: mt.Extension()}, nil
}

// NewKey builds a collision-free object key under prefix.
func NewKey(prefix, extension string) string {
	name := uuid.NewString() + extension
	if strings.TrimSpace(prefix) == "" {
		return name
	}
	return path.Join(strings.Trim(prefix, "/"), name)
}

// Format returns the extension without its leading dot.
func Format(extension string) string {
	return strings.TrimPrefix(extension, ".")
}

// JoinURL appends key to a public base URL.
func JoinURL(base, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), key)
}
