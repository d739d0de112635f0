package spec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// AllowFileRefs controls whether file:// refs are allowed for external references.
	// Automatically allowed when the root input is a local file.
	AllowFileRefs bool
	// Strict turns validation findings into a ValidationError. By default they
	// are logged and loading continues.
	Strict bool
	Logger *slog.Logger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option    { return func(s *Settings) { s.AllowFileRefs = allow } }
func WithStrict(strict bool) Option          { return func(s *Settings) { s.Strict = strict } }

// WithLogger routes loader diagnostics to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.Logger = l
		}
	}
}

// Load reads and returns an OpenAPI v3 document. If the input is Swagger v2.0,
// it is converted to v3 via kin-openapi openapi2conv.
//
// input may be a filesystem path or an http/https URL. file:// URLs are blocked.
func Load(ctx context.Context, input string, opts ...Option) (*openapi3.T, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	log := settings.Logger.With("location", input)

	u, uerr := url.Parse(input)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""

	var (
		raw        []byte
		location   = input
		rootIsFile = !isURL
	)
	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, &SpecError{Code: InputError, Message: "spec: file:// URLs are blocked by default", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}

		log.Debug("fetching document")
		data, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		raw = data
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
		}
		raw, location = data, abs
	}

	var base *url.URL
	if isURL {
		base = u
	} else {
		base = &url.URL{Path: filepath.ToSlash(location)}
	}
	return parse(ctx, raw, location, base, rootIsFile, settings, log)
}

// LoadData parses an in-memory document. External references are resolved
// against the working directory only when WithAllowFileRefs is set.
func LoadData(ctx context.Context, data []byte, opts ...Option) (*openapi3.T, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
	}
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	const location = "inline"
	return parse(ctx, data, location, nil, false, settings, settings.Logger.With("location", location))
}

func parse(ctx context.Context, raw []byte, location string, base *url.URL, rootIsFile bool, settings Settings, log *slog.Logger) (*openapi3.T, error) {
	version, err := detectSpecVersion(raw)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	var doc *openapi3.T
	loader := newLoader(settings, rootIsFile)
	switch version {
	case 3:
		if base == nil {
			doc, err = loader.LoadFromData(raw)
		} else {
			doc, err = loader.LoadFromDataWithPath(raw, base)
		}
		if err != nil {
			return nil, mapValidateOrParseErr(err, location)
		}
	case 2:
		doc, err = convertV2ToV3(raw)
		if err != nil {
			return nil, &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v2→v3: %v", err), Location: location, Cause: err}
		}
		if err := loader.ResolveRefsIn(doc, nil); err != nil {
			log.Warn("resolve refs after conversion", "error", err)
		}
	default:
		return nil, &SpecError{Code: ParseError, Message: "spec: unknown or unsupported OpenAPI/Swagger version", Location: location}
	}

	if err := doc.Validate(ctx); err != nil {
		if settings.Strict && !canProceedDespiteValidation(err) {
			return nil, mapValidateOrParseErr(err, location)
		}
		log.Warn("document has validation findings; continuing", "error", err, "pointer", extractJSONPointer(err))
	}
	log.Debug("document loaded", "version", version, "paths", len(doc.Paths))
	return doc, nil
}

func newLoader(settings Settings, rootIsFile bool) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	client := &http.Client{Timeout: settings.HTTPTimeout}
	allowFile := settings.AllowFileRefs || rootIsFile
	loader.ReadFromURIFunc = func(l *openapi3.Loader, uri *url.URL) ([]byte, error) {
		switch strings.ToLower(uri.Scheme) {
		case "", "file":
			if !allowFile {
				return nil, fmt.Errorf("blocked file ref: %s", uri.String())
			}
			path := uri.Path
			if path == "" {
				path = uri.Opaque
			}
			return os.ReadFile(filepath.FromSlash(path))
		case "http", "https":
			req, err := http.NewRequest(http.MethodGet, uri.String(), nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
			}
			return io.ReadAll(resp.Body)
		default:
			return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
		}
	}
	return loader
}

// detectSpecVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else error.
func detectSpecVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse spec: %w", err)
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
			return 3, nil
		}
	}
	if v, ok := root["swagger"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
			return 2, nil
		}
	}
	return 0, fmt.Errorf("spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

// convertV2ToV3 decodes YAML or JSON Swagger bytes through encoding/json so the
// openapi2 types keep their vendor extensions, repairs operations the converter
// rejects, then converts them.
func convertV2ToV3(data []byte) (*openapi3.T, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	generic = stringKeys(generic).(map[string]any)
	repairV2Operations(generic)
	js, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(js, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

// stringKeys rewrites mappings decoded with non-string keys, such as unquoted
// response codes, so the tree can be encoded as JSON.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}

// transientError marks failures worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return transientError{err}
			}
			defer resp.Body.Close()
			if resp.StatusCode < 300 {
				body, err = io.ReadAll(resp.Body)
				return err
			}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return transientError{fmt.Errorf("transient http error %d", resp.StatusCode)}
			}
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return retry.Unrecoverable(fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var te transientError
			return errors.As(err, &te)
		}),
		retry.OnRetry(func(n uint, err error) {
			settings.Logger.Debug("retrying fetch", "url", rawURL, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func mapValidateOrParseErr(err error, location string) error {
	pointer := extractJSONPointer(err)
	code := ValidationError
	// Heuristics: some loader errors are parse errors.
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "parse") || strings.Contains(lower, "invalid character") || strings.Contains(lower, "unmarshal") {
		code = ParseError
	}
	return &SpecError{Code: code, Message: err.Error(), Location: location, JSONPointer: pointer, Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	// Unwrap MultiError and take the first for brevity.
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}

// canProceedDespiteValidation returns true for validation errors where a
// best-effort build can still proceed (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
