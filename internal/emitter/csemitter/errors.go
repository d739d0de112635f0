package csemitter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies generation failures.
type ErrorKind string

const (
	// UnsupportedInput marks a document construct outside the supported subset.
	UnsupportedInput ErrorKind = "UnsupportedInput"
	// TemplateResourceMissing marks an absent template or family config.
	TemplateResourceMissing ErrorKind = "TemplateResourceMissing"
	// OutputFailure marks an artifact that rendered but could not be written.
	OutputFailure ErrorKind = "OutputFailure"
)

// Error is a generation error tied to the artifact being built.
type Error struct {
	Kind     ErrorKind
	Artifact string
	Msg      string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Artifact != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Artifact, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func unsupported(format string, args ...any) error {
	return &Error{Kind: UnsupportedInput, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// withArtifact stamps the artifact name onto generation errors that lack one.
func withArtifact(err error, artifact string) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Artifact == "" {
			e.Artifact = artifact
		}
		return err
	}
	return &Error{Kind: UnsupportedInput, Artifact: artifact, Cause: err}
}
