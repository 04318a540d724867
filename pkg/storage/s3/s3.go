package s3

import (
	"bytes"
	"context"
	"path"

	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ storage.Provider = (*Store)(nil)

// Store writes objects to an S3 bucket. prefix is prepended to all keys.
type Store struct {
	bucket string
	prefix string

	uploader *manager.Uploader
}

func New(client manager.UploadAPIClient, bucket, prefix string) *Store {
	return &Store{
		bucket: bucket,
		prefix: prefix,

		uploader: manager.NewUploader(client),
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	name, err := storage.CleanName(name)

	if err != nil {
		return err
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})

	return provider.Wrap("s3: put object", err)
}
