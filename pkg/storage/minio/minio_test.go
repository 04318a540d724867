package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStoreIntegration starts a MinIO container and is skipped in -short mode
// or when no container runtime is available.
func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
		},
		Started: true,
	})

	if err != nil {
		t.Skipf("MinIO container not available: %v", err)
	}

	testcontainers.CleanupContainer(t, container)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewClient(endpoint, "minioadmin", "minioadmin", false)
	require.NoError(t, err)

	require.NoError(t, client.MakeBucket(ctx, "documents", minio.MakeBucketOptions{}))

	s := New(client, "documents", "layout/")

	data := []byte(`{"pages": []}`)
	require.NoError(t, s.Write(ctx, "doc.json", data))

	obj, err := client.GetObject(ctx, "documents", "layout/doc.json", minio.GetObjectOptions{})
	require.NoError(t, err)
	defer obj.Close()

	content, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.Equal(t, data, content)
}

func TestStoreWriteInvalidName(t *testing.T) {
	client, err := NewClient("localhost:9000", "key", "secret", false)
	require.NoError(t, err)

	s := New(client, "documents", "")

	require.Error(t, s.Write(context.Background(), "../doc.json", nil))
}
