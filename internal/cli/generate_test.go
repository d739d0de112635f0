package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureGenerate swaps in a runner that records the resolved config and an
// environment built from env.
func captureGenerate(t *testing.T, env map[string]string) **GenerateConfig {
	t.Helper()
	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() {
		generateRunner = runGenerate
		lookupEnv = os.LookupEnv
	})
	return &captured
}

func newTestRoot(args ...string) *cobra.Command {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root
}

func TestGenerateConfigFromFlags(t *testing.T) {
	captured := captureGenerate(t, nil)

	root := newTestRoot(
		"--verbose",
		"generate",
		"--url", "spec.yaml",
		"--api-name", "Pets",
		"--project-name", "Acme",
		"--sub-project-name", "Store",
		"--models-path", "Out/Models",
		"--template-dir", "./families",
		"--out", "./build",
		"--dry-run",
		"--continue-on-error",
		"--strict",
	)
	require.NoError(t, root.Execute())
	cfg := *captured
	require.NotNil(t, cfg)

	assert.Equal(t, "spec.yaml", cfg.Settings.URL)
	assert.Equal(t, "Pets", cfg.Settings.APIName)
	assert.Equal(t, "Acme", cfg.Settings.ProjectName)
	assert.Equal(t, "Store", cfg.Settings.SubProjectName)
	assert.Equal(t, "Out/Models", cfg.Settings.ModelsPath)
	assert.Equal(t, "./families", cfg.Settings.TemplateDir)
	assert.Equal(t, "Requests", cfg.Settings.RequestsPath, "untouched settings keep their defaults")
	assert.Equal(t, "./build", cfg.OutDir)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.ContinueOnError)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Verbose)
}

func TestGenerateConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(strings.TrimSpace(`
url: config-spec.yaml
project-name: FromConfig
subProjectName: FromConfig
api_path: config/api
testsPath: config/tests
`)+"\n"), 0o600))

	captured := captureGenerate(t, map[string]string{
		"SWAGGER2CSHARP_PROJECT_NAME": "FromEnv",
		"SWAGGER2CSHARP_API_PATH":     "env/api",
	})

	root := newTestRoot("--config", configPath, "generate", "--api-path", "flag/api")
	require.NoError(t, root.Execute())
	cfg := *captured
	require.NotNil(t, cfg)

	assert.Equal(t, configPath, cfg.ConfigPath)
	assert.Equal(t, "config-spec.yaml", cfg.Settings.URL)
	assert.Equal(t, "FromEnv", cfg.Settings.ProjectName)
	assert.Equal(t, "FromConfig", cfg.Settings.SubProjectName)
	assert.Equal(t, "flag/api", cfg.Settings.APIPath)
	assert.Equal(t, "config/tests", cfg.Settings.TestsPath)
	assert.Equal(t, "Generated/Enums", cfg.Settings.EnumsPath)
	assert.False(t, cfg.DryRun)
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	captureGenerate(t, nil)
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("unknown: value\n"), 0o600))

	err := newTestRoot("--config", configPath, "generate", "--url", "spec.yaml").Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestGenerateConfigMissingURL(t *testing.T) {
	captured := captureGenerate(t, nil)

	err := newTestRoot("generate").Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "url")
	assert.Nil(t, *captured)
}

func TestGenerateConfigEmptiedByEnv(t *testing.T) {
	captureGenerate(t, map[string]string{"SWAGGER2CSHARP_REQUESTS_PATH": " "})

	err := newTestRoot("generate", "--url", "spec.yaml").Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "requestsPath")
}
