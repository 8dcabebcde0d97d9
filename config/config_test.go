package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/common"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_limit: 25\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.OutputLimit)
	assert.Equal(t, "nowait", cfg.LockPolicy)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, common.IsCode(err, common.OperationError))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LockPolicy = "wait"
	assert.True(t, common.IsCode(cfg.Validate(), common.OperationError))

	cfg = Default()
	cfg.OutputLimit = -1
	assert.True(t, common.IsCode(cfg.Validate(), common.OperationError))
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lock_policy: optimistic\n"), 0644))

	_, err := Load(path)
	assert.True(t, common.IsCode(err, common.OperationError))
}
