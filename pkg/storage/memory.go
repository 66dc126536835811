package storage

import (
	"context"
	"io"
	"sync"

	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
)

// MemoryStore keeps images in process memory. It backs local development when
// no bucket is configured.
type MemoryStore struct {
	mu       sync.Mutex
	objects  map[string]Image
	baseURL  string
	prefix   string
	maxBytes int64
}

func NewMemoryStore(baseURL, prefix string, maxBytes int64) *MemoryStore {
	return &MemoryStore{
		objects:  map[string]Image{},
		baseURL:  baseURL,
		prefix:   prefix,
		maxBytes: maxBytes,
	}
}

func (m *MemoryStore) Upload(ctx context.Context, filename string, r io.Reader) (*Asset, error) {
	img, err := ReadImage(r, m.maxBytes)
	if err != nil {
		return nil, err
	}
	key := NewKey(m.prefix, img.Extension)

	m.mu.Lock()
	m.objects[key] = *img
	m.mu.Unlock()

	return &Asset{
		URL:      JoinURL(m.baseURL, key),
		PublicID: key,
		Format:   Format(img.Extension),
		Bytes:    int64(len(img.Data)),
	}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[publicID]; !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "image %s not found", publicID)
	}
	delete(m.objects, publicID)
	return nil
}

// Has reports whether publicID is stored.
func (m *MemoryStore) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[publicID]
	return ok
}

// Len returns the number of stored images.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
