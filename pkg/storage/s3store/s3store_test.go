package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/riderhub/riderhub-backend/pkg/config"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.ToString(input.Key)}, nil
}

type fakeObjects struct {
	deleted []string
	err     error
}

func (f *fakeObjects) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(ctx context.Context, input *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

func testConfig() config.StorageConfig {
	return config.StorageConfig{Bucket: "riderhub-media", KeyPrefix: "products", MaxUploadMB: 1}
}

func TestUploadStoresImage(t *testing.T) {
	up := &fakeUploader{}
	store := newStore(up, &fakeObjects{}, testConfig(), nil)

	asset, err := store.Upload(context.Background(), "helmet.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "riderhub-media", aws.ToString(up.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(up.input.ContentType))
	assert.Equal(t, pngHeader, up.body)
	assert.True(t, strings.HasPrefix(asset.PublicID, "products/"))
	assert.Equal(t, "png", asset.Format)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/"+asset.PublicID, asset.URL)
}

func TestUploadUsesPublicBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.riderhub.co.ke"
	store := newStore(&fakeUploader{}, &fakeObjects{}, cfg, nil)

	asset, err := store.Upload(context.Background(), "x.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.riderhub.co.ke/"+asset.PublicID, asset.URL)
}

func TestUploadFailureIsUploadError(t *testing.T) {
	store := newStore(&fakeUploader{err: errors.New("network down")}, &fakeObjects{}, testConfig(), nil)
	_, err := store.Upload(context.Background(), "x.png", bytes.NewReader(pngHeader))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpload))
}

func TestUploadRejectsNonImage(t *testing.T) {
	up := &fakeUploader{}
	store := newStore(up, &fakeObjects{}, testConfig(), nil)
	_, err := store.Upload(context.Background(), "notes.txt", strings.NewReader("plain text"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Nil(t, up.input)
}

func TestDelete(t *testing.T) {
	objects := &fakeObjects{}
	store := newStore(&fakeUploader{}, objects, testConfig(), nil)

	require.NoError(t, store.Delete(context.Background(), "products/a.png"))
	assert.Equal(t, []string{"products/a.png"}, objects.deleted)

	assert.True(t, pkgerrors.IsCode(store.Delete(context.Background(), ""), pkgerrors.CodeValidation))

	objects.err = errors.New("denied")
	assert.True(t, pkgerrors.IsCode(store.Delete(context.Background(), "k"), pkgerrors.CodeDependency))
	assert.Error(t, store.Ping(context.Background()))
}
