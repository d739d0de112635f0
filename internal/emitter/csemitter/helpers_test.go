package csemitter

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2csharp/internal/settings"
	"github.com/mark3labs/swagger2csharp/internal/spec"
)

// memSink keeps artifacts in memory, keyed by slash-separated path.
type memSink struct {
	mu    sync.Mutex
	files map[string]string
}

func newMemSink() *memSink { return &memSink{files: map[string]string{}} }

func (m *memSink) Write(rel string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.ToSlash(rel)] = string(b)
	return nil
}

func (m *memSink) paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func testSettings() settings.Settings {
	s := settings.Defaults()
	s.URL = "memory"
	s.ProjectName = "Acme"
	s.SubProjectName = "Pets"
	return s
}

func newTestGenerator(t *testing.T) (*generator, *memSink) {
	t.Helper()
	sink := newMemSink()
	g, err := newGenerator(context.Background(), "Pet Store", Options{Settings: testSettings(), Sink: sink})
	require.NoError(t, err)
	return g, sink
}

func loadDocument(t *testing.T, src string) *spec.Document {
	t.Helper()
	raw, err := openapi3.NewLoader().LoadFromData([]byte(src))
	require.NoError(t, err)
	doc, err := spec.BuildDocument(context.Background(), raw)
	require.NoError(t, err)
	return doc
}
