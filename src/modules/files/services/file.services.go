package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"movienest/src/cache"
	"movienest/src/utils"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"
)

const (
	imageCachePrefix = "image_cache:"
	imageCacheTTL    = 6 * time.Hour
	// objects above this size are streamed without caching
	maxCachedSize = 2 << 20
	MaxPosterSize = 5 << 20
	StaticPrefix  = "/api/v1/static/"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the part of the bucket API the file service needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, string, error)
}

// MinioStore keeps objects in one MinIO bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (m *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", err
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, "", ErrObjectNotFound
		}
		return nil, 0, "", err
	}
	return obj, stat.Size, stat.ContentType, nil
}

type Service struct {
	store ObjectStore
	cache *cache.Store
}

// NewService accepts a nil store; every call then reports storage as
// unavailable.
func NewService(store ObjectStore, c *cache.Store) *Service {
	return &Service{store: store, cache: c}
}

func (s *Service) Enabled() bool {
	return s.store != nil
}

// Open returns the object at filePath, serving small objects from redis.
func (s *Service) Open(ctx context.Context, filePath string) (io.Reader, int64, string, error) {
	key := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	if key == "" {
		return nil, 0, "", utils.BadRequest("Invalid file path")
	}
	cacheKey := imageCachePrefix + key

	if cached, ok := s.cache.GetBytes(ctx, cacheKey); ok {
		log.Debug().Str("key", cacheKey).Msg("[Files] cache hit")
		return bytes.NewReader(cached), int64(len(cached)), http.DetectContentType(cached), nil
	}
	if !s.Enabled() {
		return nil, 0, "", unavailable()
	}

	obj, size, contentType, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, 0, "", utils.NotFound("File %s not found", key)
		}
		return nil, 0, "", utils.Internal("Could not read file", err)
	}
	if size > maxCachedSize {
		return obj, size, contentType, nil
	}

	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, 0, "", utils.Internal("Could not read file", err)
	}
	s.cache.SetBytes(ctx, cacheKey, data, imageCacheTTL)
	return bytes.NewReader(data), int64(len(data)), contentType, nil
}

// UploadPoster stores an image for movieID and returns the URL it is served
// from.
func (s *Service) UploadPoster(ctx context.Context, movieID uint, filename string, r io.Reader, size int64) (string, error) {
	if !s.Enabled() {
		return "", unavailable()
	}
	if size <= 0 || size > MaxPosterSize {
		return "", utils.Validation(utils.FieldError{PropertyName: "file", ErrorMessage: fmt.Sprintf("Poster must be between 1 byte and %d MB", MaxPosterSize>>20)})
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", utils.BadRequest("Could not read upload")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", utils.Validation(utils.FieldError{PropertyName: "file", ErrorMessage: "Poster must be an image"})
	}

	key := fmt.Sprintf("posters/%d/%s%s", movieID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.store.Put(ctx, key, body, size, contentType); err != nil {
		return "", utils.Internal("Could not store poster", err)
	}
	log.Info().Uint("movie_id", movieID).Str("key", key).Msg("[Files] stored poster")
	return StaticPrefix + key, nil
}

func unavailable() error {
	return &utils.ServiceError{StatusCode: http.StatusServiceUnavailable, Kind: utils.KindInternal, Message: "File storage is not configured"}
}
