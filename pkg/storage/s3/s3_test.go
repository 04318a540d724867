package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	objects map[string][]byte
	err     error
}

func (c *fakeClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if c.err != nil {
		return nil, c.err
	}

	data, err := io.ReadAll(params.Body)

	if err != nil {
		return nil, err
	}

	c.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data

	return &s3.PutObjectOutput{}, nil
}

func (c *fakeClient) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeClient) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeClient) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeClient) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func TestStoreWrite(t *testing.T) {
	client := &fakeClient{objects: map[string][]byte{}}

	s := New(client, "documents", "layout/")

	require.NoError(t, s.Write(context.Background(), "scan_structured.json", []byte(`{"pages":[]}`)))
	require.Equal(t, []byte(`{"pages":[]}`), client.objects["documents/layout/scan_structured.json"])
}

func TestStoreWriteError(t *testing.T) {
	client := &fakeClient{
		err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"},
	}

	s := New(client, "documents", "")

	err := s.Write(context.Background(), "doc.json", []byte(`{}`))

	var ioErr *provider.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "AccessDenied", ioErr.Code)
}
