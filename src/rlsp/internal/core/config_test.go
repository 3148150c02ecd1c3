package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("layered files override in order", func(t *testing.T) {
		tempDir := t.TempDir()

		meta := `files:
  - base.yaml
  - local.yaml`

		baseConfig := `service:
  name: base-service
logging:
  level: info`

		localConfig := `logging:
  level: warn`

		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "meta.yaml"), []byte(meta), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "base.yaml"), []byte(baseConfig), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "local.yaml"), []byte(localConfig), 0644))

		t.Setenv("RLSP_CONFIG_DIR", tempDir)

		provider, err := NewConfig()
		require.NoError(t, err)
		require.NotNil(t, provider)

		serviceName := provider.Get("service.name")
		assert.True(t, serviceName.HasValue())
		assert.Equal(t, "base-service", serviceName.String())

		loggingLevel := provider.Get("logging.level")
		assert.True(t, loggingLevel.HasValue())
		assert.Equal(t, "warn", loggingLevel.String())
	})

	t.Run("listed but missing files are skipped", func(t *testing.T) {
		tempDir := t.TempDir()

		meta := `files:
  - base.yaml
  - secrets.yaml`

		baseConfig := `service:
  name: base-service`

		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "meta.yaml"), []byte(meta), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "base.yaml"), []byte(baseConfig), 0644))

		t.Setenv("RLSP_CONFIG_DIR", tempDir)

		provider, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "base-service", provider.Get("service.name").String())
	})

	t.Run("fails when config directory doesn't exist", func(t *testing.T) {
		t.Setenv("RLSP_CONFIG_DIR", "/nonexistent/path")

		provider, err := NewConfig()
		assert.Error(t, err)
		assert.Nil(t, provider)
	})

	t.Run("fails when no listed file exists", func(t *testing.T) {
		tempDir := t.TempDir()

		meta := `files:
  - base.yaml`
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "meta.yaml"), []byte(meta), 0644))

		t.Setenv("RLSP_CONFIG_DIR", tempDir)

		provider, err := NewConfig()
		assert.Error(t, err)
		assert.Nil(t, provider)
	})
}

func TestConfig_Name(t *testing.T) {
	c := Config{}
	assert.Equal(t, "config", c.Name())
}

func TestGetConfigDir(t *testing.T) {
	tests := []struct {
		name           string
		setupEnv       func()
		expectedResult string
	}{
		{
			name: "returns environment variable when set",
			setupEnv: func() {
				os.Setenv("RLSP_CONFIG_DIR", "/custom/config/path")
			},
			expectedResult: "/custom/config/path",
		},
		{
			name: "returns default path when environment variable not set",
			setupEnv: func() {
				os.Unsetenv("RLSP_CONFIG_DIR")
			},
			expectedResult: "src/rlsp/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			t.Cleanup(func() {
				os.Unsetenv("RLSP_CONFIG_DIR")
			})

			result := getConfigDir()
			assert.Equal(t, tt.expectedResult, result)
		})
	}
}
