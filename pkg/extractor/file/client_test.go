package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/stretchr/testify/require"
)

func TestExtractPath(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), extractor.Input{
		URL: filepath.Join("testdata", "response.json"),
	}, nil)

	require.NoError(t, err)
	require.Equal(t, 1, result.Pages)
	require.Len(t, result.Blocks, 13)

	line := result.Blocks[1]
	require.Equal(t, block.TypeLine, line.Type)
	require.Equal(t, "Hello World", line.Text)
	require.Equal(t, 99.53, *line.Confidence)
	require.Equal(t, 0.05, line.Geometry.BoundingBox.Top)
	require.Equal(t, []string{"W1", "W2"}, line.Targets(block.RelationshipChild))

	cell := result.Blocks[5]
	require.Equal(t, 0, *cell.RowIndex)
	require.Equal(t, 1, *cell.ColumnIndex)

	require.Nil(t, result.Blocks[2].Geometry)
}

func TestExtractFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "response.json"))
	require.NoError(t, err)

	c, _ := New()

	result, err := c.Extract(context.Background(), extractor.Input{
		File: &provider.File{Name: "response.json", Content: data},
	}, nil)

	require.NoError(t, err)
	require.Len(t, result.Blocks, 13)
}

func TestParsePaginated(t *testing.T) {
	result, err := Parse([]byte(`[
		{"DocumentMetadata": {"Pages": 2}, "Blocks": [{"BlockType": "PAGE", "Id": "P1", "Page": 1}]},
		{"DocumentMetadata": {"Pages": 2}, "Blocks": [{"BlockType": "PAGE", "Id": "P2", "Page": 2}]}
	]`))

	require.NoError(t, err)
	require.Equal(t, 2, result.Pages)
	require.Len(t, result.Blocks, 2)
	require.Equal(t, "P2", result.Blocks[1].ID)
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		`not json`,
		`42`,
		`{"pages": []}`,
		`{"Blocks": [{"Id": 5}]}`,
	} {
		_, err := Parse([]byte(input))
		require.ErrorIs(t, err, ErrInvalidResponse, input)
	}
}

func TestExtractErrors(t *testing.T) {
	c, _ := New()

	_, err := c.Extract(context.Background(), extractor.Input{}, nil)
	require.ErrorIs(t, err, extractor.ErrNoInput)

	_, err = c.Extract(context.Background(), extractor.Input{URL: "file:///does/not/exist.json"}, nil)

	var ioErr *provider.IOError
	require.True(t, errors.As(err, &ioErr))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = c.Extract(context.Background(), extractor.Input{
		File: &provider.File{Content: []byte(`{}`)},
	}, nil)

	require.ErrorIs(t, err, ErrInvalidResponse)
}
