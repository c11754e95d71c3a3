package gpu

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrReleased is returned when a resource is used after Release.
	ErrReleased = errors.New("gpu: resource already released")

	// ErrLocationNotFound matches every *LocationError.
	ErrLocationNotFound = errors.New("gpu: location not found")

	// ErrInvalidEncoding is returned for strings that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8")

	// ErrEmbeddedNUL is returned for strings containing a NUL byte, which
	// the C-string based backends would silently truncate.
	ErrEmbeddedNUL = errors.New("embedded NUL byte")
)

// CompileErrorKind classifies a CompileError.
type CompileErrorKind int

const (
	// CompileFailed means the backend rejected the source; Log holds its diagnostic.
	CompileFailed CompileErrorKind = iota
	// SourceUnreadable means the source file could not be read.
	SourceUnreadable
	// InvalidEncoding means the source was not valid UTF-8.
	InvalidEncoding
	// EmbeddedNUL means the source contained a NUL byte.
	EmbeddedNUL
)

func (k CompileErrorKind) String() string {
	switch k {
	case CompileFailed:
		return "compilation"
	case SourceUnreadable:
		return "io"
	case InvalidEncoding:
		return "encoding"
	case EmbeddedNUL:
		return "nul"
	default:
		return "unknown"
	}
}

// CompileError reports a shader stage that could not be compiled.
type CompileError struct {
	Kind  CompileErrorKind
	Stage Stage
	Path  string // empty for in-memory sources
	Log   string // backend log, verbatim, for CompileFailed
	Err   error
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s shader", e.Stage)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	switch e.Kind {
	case CompileFailed:
		fmt.Fprintf(&b, ": compilation error: %s", e.Log)
	default:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports a program that could not be built. When a stage failed
// to compile, Err holds the *CompileError and Log is empty.
type LinkError struct {
	Log string
	Err error
}

func (e *LinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("program: %v", e.Err)
	}
	return fmt.Sprintf("program: linking error: %s", e.Log)
}

func (e *LinkError) Unwrap() error { return e.Err }

// LocationKind distinguishes attribute from uniform lookups.
type LocationKind int

const (
	AttributeLocation LocationKind = iota
	UniformLocation
)

func (k LocationKind) String() string {
	if k == UniformLocation {
		return "uniform"
	}
	return "attribute"
}

// LocationError reports a named attribute or uniform missing from a linked program.
type LocationError struct {
	Kind    LocationKind
	Name    string
	Program uint32
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("%s %q not found in program %d", e.Kind, e.Name, e.Program)
}

func (e *LocationError) Is(target error) bool {
	return target == ErrLocationNotFound
}

// checkCString validates a string destined for a C-string backend call.
func checkCString(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	if strings.IndexByte(s, 0) >= 0 {
		return ErrEmbeddedNUL
	}
	return nil
}
