package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdactivity/internal/config"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(io.Discard, "debug", "JSON")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), -4))
}

func TestOpenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,BDE Name\n2024-01-05,Asha\n"), 0o644))

	res, err := OpenSource(context.Background(), nil, &config.Config{DataSource: config.SourceFile, DataFile: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })
	assert.Equal(t, "file", res.Source.Name())

	_, err = OpenSource(context.Background(), nil, &config.Config{DataSource: "ftp"})
	assert.Error(t, err)
}
