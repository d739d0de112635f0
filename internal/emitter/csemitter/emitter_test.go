package csemitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2csharp/internal/spec"
)

const petDocument = `openapi: 3.0.0
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets/{id}:
    get:
      description: |
        Finds a pet.
          Returns 404 when missing.
      parameters:
        - in: path
          name: id
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
`

func TestEmit_PetScenario(t *testing.T) {
	t.Parallel()
	sink := newMemSink()
	res, err := Emit(context.Background(), loadDocument(t, petDocument), Options{Settings: testSettings(), Sink: sink})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, "PetStore", res.APIName)
	assert.Equal(t, []string{
		"Generated/Api/PetStore.generated.cs",
		"Generated/Tests/PetStoreTest.generated.cs",
		"Models/PetModel.generated.cs",
		"Requests/PetsByIdGet.generated.cs",
	}, sink.paths())

	model := sink.files["Models/PetModel.generated.cs"]
	assert.Contains(t, model, "namespace Acme.Pets.Models")
	assert.Contains(t, model, "public class PetModel")
	assert.Equal(t, 1, strings.Count(model, "{ get; set; }"))
	assert.Contains(t, model, "        [JsonRequired]\n        [JsonProperty(\"name\")]\n        public string Name { get; set; }")

	req := sink.files["Requests/PetsByIdGet.generated.cs"]
	assert.Equal(t, 1, strings.Count(req, "{ get; set; }"))
	assert.Contains(t, req, "[Path]")
	assert.Contains(t, req, "public string Id { get; set; }")

	api := sink.files["Generated/Api/PetStore.generated.cs"]
	assert.Contains(t, api, "public partial class PetStore")
	assert.Contains(t, api, "public Task<PetModel> PetsByIdGet(PetsByIdGetRequest args)")
	assert.Contains(t, api, `$"/pets/{args.Id}"`)
	assert.Contains(t, api, "HttpMethod.Get")
	assert.Contains(t, api, "        /// Finds a pet.\n        /// Returns 404 when missing.\n")

	tests := sink.files["Generated/Tests/PetStoreTest.generated.cs"]
	assert.Contains(t, tests, "private PetsByIdGetRequest PetsByIdGetRequest = null;")
	assert.Contains(t, tests, "public async Task PetsByIdGetTest()")

	for path, text := range sink.files {
		assert.NotContains(t, text, "[@", path)
	}
}

const mixedDocument = `openapi: 3.0.0
info:
  title: Mixed
  version: "1.0.0"
paths:
  /items:
    get:
      operationId: listItems
      parameters:
        - in: query
          name: limit
          schema:
            type: integer
            format: int32
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Billing.Invoice'
    post:
      parameters:
        - in: header
          name: X-Trace
          schema:
            type: string
      responses:
        "201":
          description: created
  /items/{id}:
    delete:
      parameters:
        - in: path
          name: id
          required: true
          schema:
            type: integer
            format: int64
      responses:
        "404":
          description: missing
    put:
      parameters:
        - in: path
          name: id
          required: true
          schema:
            type: integer
            format: int64
      responses:
        "204":
          description: updated
components:
  schemas:
    Billing.Invoice:
      type: object
      deprecated: true
      description: An invoice.
      properties:
        total:
          type: number
          format: double
        state:
          type: string
          enum: [open, paid]
        lines:
          type: array
    Tag:
      type: object
      properties:
        label:
          type: string
          nullable: true
`

func TestEmit_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()
	sink := newMemSink()
	res, err := Emit(context.Background(), loadDocument(t, mixedDocument), Options{Settings: testSettings(), Sink: sink})
	require.Error(t, err)
	assert.True(t, IsKind(err, UnsupportedInput))
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "Billing.Invoice", res.Failures[0].Artifact)
	assert.NotContains(t, sink.files, "Generated/Api/Mixed.generated.cs")
}

func TestEmit_ContinueOnError(t *testing.T) {
	t.Parallel()
	sink := newMemSink()
	res, err := Emit(context.Background(), loadDocument(t, mixedDocument), Options{
		Settings:        testSettings(),
		Sink:            sink,
		ContinueOnError: true,
	})
	require.NoError(t, err)

	var failed []string
	for _, f := range res.Failures {
		failed = append(failed, f.Artifact)
		assert.True(t, IsKind(f.Err, UnsupportedInput), f.Artifact)
	}
	assert.Equal(t, []string{"Billing.Invoice", "POST /items", "DELETE /items/{id}"}, failed)
	assert.Error(t, res.Err())

	api := sink.files["Generated/Api/Mixed.generated.cs"]
	require.NotEmpty(t, api)
	assert.Contains(t, api, "public Task<Billing.Invoice[]> listItems(listItemsRequest args)")
	assert.Contains(t, api, "public Task<VoidResponse> ItemsByIdPut(ItemsByIdPutRequest args)")
	assert.NotContains(t, api, "ItemsPost")
	assert.NotContains(t, api, "ItemsByIdDelete")

	tests := sink.files["Generated/Tests/MixedTest.generated.cs"]
	assert.Contains(t, tests, "listItemsTest()")
	assert.Contains(t, tests, "ItemsByIdPutTest()")
	assert.NotContains(t, tests, "ItemsPost")

	tag := sink.files["Models/TagModel.generated.cs"]
	assert.Contains(t, tag, "        [CanBeNull]\n        [JsonProperty(\"label\")]\n        public string Label { get; set; }")
}

func TestEmit_NamespacedComponent(t *testing.T) {
	t.Parallel()
	doc := loadDocument(t, mixedDocument)
	// Drop the untyped array so the component renders.
	invoice := doc.Components[0].Schema
	invoice.Properties = invoice.Properties[1:]

	sink := newMemSink()
	_, err := Emit(context.Background(), doc, Options{Settings: testSettings(), Sink: sink, ContinueOnError: true})
	require.NoError(t, err)

	text := sink.files["Generated/Components/Billing/Invoice.generated.cs"]
	require.NotEmpty(t, text)
	assert.Contains(t, text, "namespace Billing\n")
	assert.Contains(t, text, "public class Invoice")
	assert.Contains(t, text, "    /// An invoice.\n")
	assert.Contains(t, text, "    [Obsolete]\n    public class Invoice")
	assert.Contains(t, text, `[JsonProperty("total", NullValueHandling = NullValueHandling.Ignore)]`)
	assert.Contains(t, text, "public double? Total { get; set; }")
	assert.Contains(t, text, `[JsonProperty("state")]`)
	assert.Contains(t, text, "public StateEnum State { get; set; }")
	assert.Contains(t, sink.files, "Generated/Enums/StateEnums.generated.cs")
}

func TestEmit_Deterministic(t *testing.T) {
	t.Parallel()
	run := func() map[string]string {
		sink := newMemSink()
		_, err := Emit(context.Background(), loadDocument(t, mixedDocument), Options{Settings: testSettings(), Sink: sink, ContinueOnError: true})
		require.NoError(t, err)
		return sink.files
	}
	assert.Equal(t, run(), run())
}

func TestEmit_WritesFilesAndOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	doc := loadDocument(t, petDocument)
	opts := Options{Settings: testSettings(), OutDir: dir}

	stale := filepath.Join(dir, "Models", "PetModel.generated.cs")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	res, err := Emit(context.Background(), doc, opts)
	require.NoError(t, err)
	first := map[string][]byte{}
	for _, p := range res.Planned {
		b, err := os.ReadFile(filepath.Join(dir, p.RelPath))
		require.NoError(t, err)
		assert.Len(t, b, p.Size)
		first[p.RelPath] = b
	}
	assert.NotEqual(t, "old", string(first[filepath.Join("Models", "PetModel.generated.cs")]))

	_, err = Emit(context.Background(), doc, opts)
	require.NoError(t, err)
	for rel, want := range first {
		got, err := os.ReadFile(filepath.Join(dir, rel))
		require.NoError(t, err)
		assert.Equal(t, want, got, rel)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "Models"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestEmit_DryRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	res, err := Emit(context.Background(), loadDocument(t, petDocument), Options{Settings: testSettings(), OutDir: dir, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, res.Planned, 4)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmit_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Emit(ctx, loadDocument(t, petDocument), Options{Settings: testSettings(), Sink: newMemSink(), ContinueOnError: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmit_MissingFamily(t *testing.T) {
	t.Parallel()
	s := testSettings()
	s.Template = "cobol"
	_, err := Emit(context.Background(), &spec.Document{}, Options{Settings: s, Sink: newMemSink()})
	require.Error(t, err)
	assert.True(t, IsKind(err, TemplateResourceMissing))
}

func TestEmit_EmptyDocument(t *testing.T) {
	t.Parallel()
	sink := newMemSink()
	s := testSettings()
	s.APIName = "Empty"
	res, err := Emit(context.Background(), &spec.Document{}, Options{Settings: s, Sink: sink})
	require.NoError(t, err)
	assert.Equal(t, []string{"Generated/Api/Empty.generated.cs", "Generated/Tests/EmptyTest.generated.cs"}, sink.paths())
	assert.Len(t, res.Planned, 2)
}

const uploadDocument = `openapi: 3.0.0
info:
  title: Uploads
  version: "1.0.0"
paths:
  /files:
    post:
      operationId: UploadFile
      requestBody:
        content:
          multipart/form-data:
            schema:
              $ref: '#/components/schemas/UploadForm'
      responses:
        "204":
          description: stored
components:
  schemas:
    UploadForm:
      type: object
      required: [file]
      properties:
        file:
          type: string
          format: binary
        note:
          type: string
`

func TestEmit_ReferencedMultipartBody(t *testing.T) {
	t.Parallel()
	sink := newMemSink()
	_, err := Emit(context.Background(), loadDocument(t, uploadDocument), Options{Settings: testSettings(), Sink: sink})
	require.NoError(t, err)

	req := sink.files["Requests/UploadFile.generated.cs"]
	require.NotEmpty(t, req)
	assert.Contains(t, req, `[JsonProperty("file")]`)
	assert.Contains(t, req, "public IFormFile File { get; set; }")
	assert.Contains(t, req, `[JsonProperty("note")]`)
	assert.Contains(t, req, "public string Note { get; set; }")
	assert.Equal(t, 1, strings.Count(req, "[JsonRequired]"), "only the file part is required")
	assert.Less(t, strings.Index(req, "[JsonRequired]"), strings.Index(req, "IFormFile File"))
	assert.NotContains(t, req, "RequestBody", "form parts are flattened")
}
