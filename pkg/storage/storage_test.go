package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is the smallest byte sequence recognised as image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestReadImageAcceptsPNG(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
}

func TestReadImageRejectsText(t *testing.T) {
	_, err := ReadImage(strings.NewReader("just some text"), 1024)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestReadImageRejectsOversize(t *testing.T) {
	_, err := ReadImage(bytes.NewReader(pngHeader), 8)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ReadImage(bytes.NewReader(nil), 8)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewKeyUsesPrefix(t *testing.T) {
	key := NewKey("/products/", ".jpg")
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotContains(t, NewKey("", ".png"), "/")
}

func TestMemoryStoreUploadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://localhost:5000/media/", "products", 1024)

	asset, err := store.Upload(ctx, "helmet.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "png", asset.Format)
	assert.Equal(t, int64(len(pngHeader)), asset.Bytes)
	assert.Equal(t, "http://localhost:5000/media/"+asset.PublicID, asset.URL)
	assert.True(t, store.Has(asset.PublicID))

	require.NoError(t, store.Delete(ctx, asset.PublicID))
	assert.Equal(t, 0, store.Len())
	assert.True(t, pkgerrors.IsCode(store.Delete(ctx, asset.PublicID), pkgerrors.CodeNotFound))
}
