package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSpecYAML = "" +
	"openapi: 3.0.0\n" +
	"info:\n" +
	"  title: Hello Service\n" +
	"  version: '1.0.0'\n" +
	"paths:\n" +
	"  /hello:\n" +
	"    get:\n" +
	"      summary: Hello\n" +
	"      responses:\n" +
	"        '200':\n" +
	"          description: ok\n" +
	"    delete:\n" +
	"      responses:\n" +
	"        '404':\n" +
	"          description: missing\n"

var minimalSpecFiles = []string{
	filepath.Join("Requests", "HelloGet.generated.cs"),
	filepath.Join("Generated", "Api", "HelloService.generated.cs"),
	filepath.Join("Generated", "Tests", "HelloServiceTest.generated.cs"),
}

// pipelineFixture writes the minimal document and isolates the run from the
// process environment.
func pipelineFixture(t *testing.T) (specPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	specPath = filepath.Join(dir, "spec.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(minimalSpecYAML), 0o600))
	lookupEnv = func(string) (string, bool) { return "", false }
	t.Cleanup(func() { lookupEnv = os.LookupEnv })
	return specPath, filepath.Join(dir, "out")
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	specPath, outDir := pipelineFixture(t)

	var stdout bytes.Buffer
	root := newTestRoot("generate", "--url", specPath, "--out", outDir, "--dry-run", "--continue-on-error")
	root.SetOut(&stdout)

	err := root.Execute()
	require.Error(t, err, "the unsupported DELETE is still reported")
	assert.Contains(t, err.Error(), "1 of 4 artifacts failed")

	out := stdout.String()
	assert.Contains(t, out, "Planned writes to "+outDir+" (3 files):")
	for _, rel := range minimalSpecFiles {
		assert.Contains(t, out, "- "+rel+"\n")
	}
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the output directory")
}

func TestGeneratePipeline_WritesFiles(t *testing.T) {
	specPath, outDir := pipelineFixture(t)

	var stderr bytes.Buffer
	root := newTestRoot("generate", "--url", specPath, "--out", outDir, "--continue-on-error", "--project-name", "Acme")
	root.SetErr(&stderr)

	require.Error(t, root.Execute())
	assert.Contains(t, stderr.String(), "artifact skipped")
	assert.Contains(t, stderr.String(), "DELETE /hello")

	for _, rel := range minimalSpecFiles {
		assert.FileExists(t, filepath.Join(outDir, rel))
	}
	api, err := os.ReadFile(filepath.Join(outDir, minimalSpecFiles[1]))
	require.NoError(t, err)
	assert.Contains(t, string(api), "namespace Acme.Client.Api")
	assert.Contains(t, string(api), "public Task<VoidResponse> HelloGet(HelloGetRequest args)")
}

func TestGeneratePipeline_StopsAtFirstFailure(t *testing.T) {
	specPath, outDir := pipelineFixture(t)

	err := newTestRoot("generate", "--url", specPath, "--out", outDir).Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--continue-on-error")
	assert.NoFileExists(t, filepath.Join(outDir, minimalSpecFiles[1]))
}

func TestGeneratePipeline_MissingDocument(t *testing.T) {
	_, outDir := pipelineFixture(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	err := newTestRoot("generate", "--url", missing, "--out", outDir).Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "Location: "+missing)
}

func TestGeneratePipeline_UnknownTemplateFamily(t *testing.T) {
	specPath, outDir := pipelineFixture(t)

	err := newTestRoot("generate", "--url", specPath, "--out", outDir, "--template", "cobol").Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "--template-dir")
}
