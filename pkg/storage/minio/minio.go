package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ storage.Provider = (*Store)(nil)

// Store writes objects to a MinIO or other S3 compatible bucket.
type Store struct {
	client *minio.Client

	bucket string
	prefix string
}

func New(client *minio.Client, bucket, prefix string) *Store {
	return &Store{
		client: client,

		bucket: bucket,
		prefix: prefix,
	}
}

// NewClient creates a client for endpoint (host:port) with static credentials.
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	name, err := storage.CleanName(name)

	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})

	if err != nil {
		resp := minio.ToErrorResponse(err)

		return &provider.IOError{
			Op:   "minio: put object",
			Code: resp.Code,
			Err:  err,
		}
	}

	return nil
}
