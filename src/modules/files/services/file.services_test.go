package files

import (
	"bytes"
	"context"
	"io"
	"movienest/src/cache"
	"movienest/src/utils"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	gets    int
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, int64, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, "", ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), m.types[key], nil
}

// smallest valid PNG header is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func newCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb), mr
}

func TestUploadPosterThenOpen(t *testing.T) {
	store := newMemStore()
	c, mr := newCache(t)
	svc := NewService(store, c)
	ctx := context.Background()

	url, err := svc.UploadPoster(ctx, 5, "Poster.PNG", bytes.NewReader(pngBytes), int64(len(pngBytes)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, StaticPrefix+"posters/5/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, StaticPrefix)
	assert.Equal(t, pngBytes, store.objects[key])
	assert.Equal(t, "image/png", store.types[key])

	for i := 0; i < 2; i++ {
		r, size, contentType, err := svc.Open(ctx, "/"+key)
		require.NoError(t, err)
		data, _ := io.ReadAll(r)
		assert.Equal(t, pngBytes, data)
		assert.Equal(t, int64(len(pngBytes)), size)
		assert.Equal(t, "image/png", contentType)
	}
	assert.Equal(t, 1, store.gets)
	assert.True(t, mr.Exists(imageCachePrefix+key))
}

func TestUploadPoster_RejectsNonImages(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	body := []byte("just some text")

	_, err := svc.UploadPoster(context.Background(), 1, "notes.txt", bytes.NewReader(body), int64(len(body)))
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.UploadPoster(context.Background(), 1, "huge.png", bytes.NewReader(pngBytes), MaxPosterSize+1)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestOpen_Missing(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, _, _, err := svc.Open(context.Background(), "/posters/1/none.png")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, _, _, err = svc.Open(context.Background(), "/")
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))
}

func TestOpen_PathIsCleaned(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Put(context.Background(), "posters/a.png", bytes.NewReader(pngBytes), 0, "image/png"))
	svc := NewService(store, nil)

	_, _, _, err := svc.Open(context.Background(), "/../posters/./a.png")
	assert.NoError(t, err)
}

func TestDisabledStore(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.UploadPoster(context.Background(), 1, "a.png", bytes.NewReader(pngBytes), int64(len(pngBytes)))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindInternal))
}
