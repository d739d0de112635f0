// Package csemitter turns a spec.Document into C# source artifacts: model and
// component classes, enums, per-operation request classes, an API client class
// and its test stub class.
package csemitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/settings"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

// Options controls a generation run.
type Options struct {
	Settings settings.Settings
	// OutDir is the base the Settings paths are relative to; empty means the
	// working directory.
	OutDir string
	// Family overrides the family named by Settings.Template.
	Family *template.Family
	// Sink overrides where artifacts go. DryRun wins over Sink.
	Sink   Sink
	DryRun bool
	// ContinueOnError records a failed artifact and moves on instead of
	// aborting the run.
	ContinueOnError bool
	Logger          *slog.Logger
}

// ArtifactKind says which builder produced an artifact.
type ArtifactKind string

const (
	KindModel     ArtifactKind = "model"
	KindComponent ArtifactKind = "component"
	KindEnum      ArtifactKind = "enum"
	KindRequest   ArtifactKind = "request"
	KindAPI       ArtifactKind = "api"
	KindTest      ArtifactKind = "test"
)

// Artifact is one rendered output file.
type Artifact struct {
	Kind ArtifactKind
	Dir  string
	Name string
	Text string
}

// RelPath is where the artifact lands, relative to Options.OutDir.
func (a Artifact) RelPath(ext string) string {
	return filepath.Join(a.Dir, a.Name+".generated."+ext)
}

// PlannedFile describes an artifact that was written, or would have been in a
// dry run.
type PlannedFile struct {
	Kind    ArtifactKind
	RelPath string
	Size    int
}

// Failure is one artifact that could not be produced.
type Failure struct {
	Artifact string
	Err      error
}

// Result reports what a run produced. Planned is in emission order.
type Result struct {
	APIName  string
	Planned  []PlannedFile
	Failures []Failure
}

// Err joins all failures, or returns nil.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// Emit generates every artifact for doc. Components come first, then the API
// class with its request classes, then the test class.
//
// Without ContinueOnError the first failure ends the run and is returned along
// with the partial Result; artifacts already written stay on disk. With it,
// failures are collected in Result.Failures and the error is nil. Template
// family problems and cancellation always end the run.
func Emit(ctx context.Context, doc *spec.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("csemitter: nil Document")
	}
	g, err := newGenerator(ctx, doc.Title, opts)
	if err != nil {
		return nil, err
	}
	for _, step := range []func(*spec.Document) error{g.buildComponents, g.buildAPI, g.buildAPITests} {
		if err := step(doc); err != nil {
			return g.result, err
		}
	}
	g.log.Info("generation finished", "artifacts", len(g.result.Planned), "failures", len(g.result.Failures))
	return g.result, nil
}

func newGenerator(ctx context.Context, title string, opts Options) (*generator, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := opts.Settings
	cfg.ResolveAPIName(title)

	family := opts.Family
	if family == nil {
		f, err := template.Load(cfg.Template, cfg.TemplateDir)
		if err != nil {
			return nil, &Error{Kind: TemplateResourceMissing, Msg: err.Error(), Cause: err}
		}
		family = f
	}

	sink := opts.Sink
	switch {
	case opts.DryRun:
		sink = discardSink{}
	case sink == nil:
		sink = DirSink{Root: opts.OutDir}
	}

	id := template.Identity{ProjectName: cfg.ProjectName, SubProjectName: cfg.SubProjectName, APIName: cfg.APIName}
	return &generator{
		ctx:       ctx,
		cfg:       cfg,
		engine:    template.NewEngine(family, id),
		vars:      family.Vars,
		sink:      sink,
		log:       log,
		keepGoing: opts.ContinueOnError,
		result:    &Result{APIName: cfg.APIName},
		requests:  make(map[string]string),
		failed:    make(map[string]bool),
	}, nil
}

// generator carries the read-only inputs of a run plus its result.
type generator struct {
	ctx       context.Context
	cfg       settings.Settings
	engine    *template.Engine
	vars      template.Variables
	sink      Sink
	log       *slog.Logger
	keepGoing bool
	result    *Result

	// requests maps an operation key to its request class name; failed holds
	// operation keys whose API function could not be built.
	requests map[string]string
	failed   map[string]bool
}

// emit writes one artifact through the sink and records it.
func (g *generator) emit(a Artifact) error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	rel := a.RelPath(g.vars.Extension)
	if err := g.sink.Write(rel, []byte(a.Text)); err != nil {
		return &Error{Kind: OutputFailure, Artifact: rel, Msg: err.Error(), Cause: err}
	}
	g.log.Debug("artifact written", "kind", a.Kind, "path", rel)
	g.result.Planned = append(g.result.Planned, PlannedFile{Kind: a.Kind, RelPath: rel, Size: len(a.Text)})
	return nil
}

// fail records err against artifact. It returns nil when the run should go
// on and err when it should stop.
func (g *generator) fail(artifact string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	err = withArtifact(err, artifact)
	g.result.Failures = append(g.result.Failures, Failure{Artifact: artifact, Err: err})
	if !g.keepGoing {
		return err
	}
	g.log.Warn("artifact skipped", "artifact", artifact, "error", err)
	return nil
}

// block renders a fragment meant to be joined with its siblings.
func (g *generator) block(name string, ctx template.Context) string {
	return strings.TrimRight(g.engine.Render(g.engine.Family().Text(name), ctx), "\r\n")
}

func marker(set bool, text string) string {
	if set {
		return text
	}
	return ""
}

func operationKey(path string, m spec.HttpMethod) string {
	return strings.ToUpper(string(m)) + " " + path
}
