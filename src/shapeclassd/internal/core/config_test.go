package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
}

func TestNewConfigFromRepository(t *testing.T) {
	t.Setenv(_envConfigDir, filepath.Join("..", "..", "config"))

	provider, err := NewConfig()
	require.NoError(t, err)

	cfg := provider.(Config)
	assert.Equal(t, "config", cfg.Name())
	assert.Equal(t, "shapeclassd", cfg.Get("service.name").String())
	assert.True(t, cfg.Get("logging.level").HasValue())
	assert.Equal(t, "/ws", cfg.Get("transport.path").String())

	var width int
	require.NoError(t, cfg.Get("canvas.width").Populate(&width))
	assert.Equal(t, 70, width)
}

func TestConfigFilePriority(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n  - development.yaml\n  - local.yaml\n",
		"base.yaml": "service:\n  name: base-service\nlogging:\n  level: info\n",
		"development.yaml": "service:\n  name: dev-service\nlogging:\n  level: debug\n",
		"local.yaml": "logging:\n  level: warn\n",
	})

	provider, err := newConfigFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "dev-service", provider.Get("service.name").String())
	assert.Equal(t, "warn", provider.Get("logging.level").String())
}

func TestConfigSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n  - local.yaml\n",
		"base.yaml": "transport:\n  port: ${SHAPECLASSD_TEST_PORT:5001}\n",
	})

	provider, err := newConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "5001", provider.Get("transport.port").String())

	t.Setenv("SHAPECLASSD_TEST_PORT", "6000")
	provider, err = newConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "6000", provider.Get("transport.port").String())
}

func TestConfigErrors(t *testing.T) {
	t.Run("missing meta", func(t *testing.T) {
		_, err := newConfigFromDir(t.TempDir())
		assert.ErrorContains(t, err, "meta configuration")
	})

	t.Run("no listed files exist", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"meta.yaml": "files:\n  - base.yaml\n"})
		_, err := newConfigFromDir(dir)
		assert.ErrorContains(t, err, "no configuration files found")
	})

	t.Run("bad files list", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"meta.yaml": "files: 12\n"})
		_, err := newConfigFromDir(dir)
		assert.Error(t, err)
	})
}

func TestGetConfigDir(t *testing.T) {
	tests := []struct {
		name           string
		env            string
		expectedResult string
	}{
		{
			name:           "returns environment variable when set",
			env:            "/custom/config/path",
			expectedResult: "/custom/config/path",
		},
		{
			name:           "returns default path when environment variable not set",
			expectedResult: "src/shapeclassd/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envConfigDir, tt.env)
			assert.Equal(t, tt.expectedResult, getConfigDir())
		})
	}
}
