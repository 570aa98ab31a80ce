package tokencache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultS3Key = "token.json"

// S3Store keeps the token as a JSON object in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	key    string
}

// NewS3Store creates a MinIO client for cfg. No request is made until Load or Save.
func NewS3Store(cfg shared.S3CacheConfig) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 endpoint and bucket must be set", shared.ErrInvalidConfig)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, &Error{Backend: "s3", Op: "connect", Err: err}
	}

	key := cfg.Key
	if key == "" {
		key = defaultS3Key
	}
	return &S3Store{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (s *S3Store) Name() string { return "s3" }

// Location returns the bucket and object key of the token.
func (s *S3Store) Location() (bucket, key string) { return s.bucket, s.key }

func (s *S3Store) Load(ctx context.Context) (*oauth.Token, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get token object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token object: %w", err)
	}
	return decodeToken(data)
}

func (s *S3Store) Save(ctx context.Context, token oauth.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to save token object: %w", err)
	}
	return nil
}
