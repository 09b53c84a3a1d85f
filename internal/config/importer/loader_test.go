package importer_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("IMPORT_SOURCE", "s3://dumps/anime.json")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3://dumps/anime.json", cfg.Import.Source)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.PathStyle)
	assert.Equal(t, 1000, cfg.Import.BatchSize)
	assert.Equal(t, time.Minute, cfg.DB.QueryTimeout)
}

func TestLoad_EmptySource(t *testing.T) {
	p := filepath.Join(t.TempDir(), "importer.yaml")
	require.NoError(t, os.WriteFile(p, []byte("import:\n  source: \"\"\n"), 0o600))

	_, err := Load(p)
	assert.ErrorIs(t, err, ErrConfig("import.source is empty"))
}
