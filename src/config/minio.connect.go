package config

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ConnectMinio creates the object storage client and makes sure the bucket
// exists. An empty endpoint disables poster storage.
func ConnectMinio(cfg MinioConfig) *minio.Client {
	if cfg.Endpoint == "" {
		log.Warn().Msg("MINIO_ENDPOINT not set, poster storage disabled")
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create MinIO client")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Error().Err(err).Str("bucket", cfg.Bucket).Msg("Failed to check bucket")
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Error().Err(err).Str("bucket", cfg.Bucket).Msg("Failed to create bucket")
			return nil
		}
	}

	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("MinIO connected")
	return client
}
