package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrMalformedDirective indicates a builder directive that does not have
	// the form each=<name>.
	ErrMalformedDirective = errors.New("derive: malformed directive")
	// ErrUnrecognizedOption indicates a builder directive with an unknown key.
	ErrUnrecognizedOption = errors.New("derive: unrecognized directive option")
	// ErrDirectiveRequiresSequence indicates an accumulator directive on a
	// field that is not a slice.
	ErrDirectiveRequiresSequence = errors.New("derive: directive requires a sequence field")
	// ErrStructuralMismatch indicates an annotated type that cannot be
	// processed at all.
	ErrStructuralMismatch = errors.New("derive: structural mismatch")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("derive: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("derive: code generation failed")
)

// DirectiveKind classifies a field-level directive error.
type DirectiveKind uint8

const (
	// MalformedDirective is a directive with zero or several options, a
	// flag instead of a key=value pair, or an unusable accumulator name.
	MalformedDirective DirectiveKind = iota + 1
	// UnrecognizedOption is a directive whose key is not the accumulator key.
	UnrecognizedOption
	// DirectiveRequiresSequence is an accumulator directive on a field whose
	// optionality-stripped type is not a slice.
	DirectiveRequiresSequence
)

// String implements fmt.Stringer.
func (k DirectiveKind) String() string {
	switch k {
	case MalformedDirective:
		return "MalformedDirective"
	case UnrecognizedOption:
		return "UnrecognizedOption"
	case DirectiveRequiresSequence:
		return "DirectiveRequiresSequence"
	default:
		return fmt.Sprintf("DirectiveKind(%d)", k)
	}
}

func (k DirectiveKind) sentinel() error {
	switch k {
	case MalformedDirective:
		return ErrMalformedDirective
	case UnrecognizedOption:
		return ErrUnrecognizedOption
	case DirectiveRequiresSequence:
		return ErrDirectiveRequiresSequence
	default:
		return nil
	}
}

// DirectiveError is a field-level error. It never aborts a pass: the
// field's setter is replaced by a declaration that fails to compile at Pos.
type DirectiveError struct {
	Kind    DirectiveKind
	Type    string // Record type name
	Field   string // Field name
	Pos     token.Position
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString("derive: ")
	b.WriteString(e.Kind.String())
	if e.Type != "" {
		b.WriteString(" on ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel of the error's kind.
func (e *DirectiveError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Diagnostic returns the message compiled into the generated file. It is
// the message the user sees from the Go compiler.
func (e *DirectiveError) Diagnostic() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// NewDirectiveError creates a new DirectiveError.
func NewDirectiveError(kind DirectiveKind, typeName, field string, pos token.Position, message string, cause error) *DirectiveError {
	return &DirectiveError{
		Kind:    kind,
		Type:    typeName,
		Field:   field,
		Pos:     pos,
		Message: message,
		Cause:   cause,
	}
}

// StructuralError reports an annotated declaration that is not a flat
// named-field struct. It is fatal for the declaration.
type StructuralError struct {
	Type    string
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString("derive: structural mismatch")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for StructuralError.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructuralMismatch
}

// NewStructuralError creates a new StructuralError.
func NewStructuralError(typeName string, pos token.Position, message string) *StructuralError {
	return &StructuralError{
		Type:    typeName,
		Pos:     pos,
		Message: message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("derive: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("derive: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "plan", "render", "write", "clean"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("derive: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsDirectiveError reports whether the error is a DirectiveError.
func IsDirectiveError(err error) bool {
	var dirErr *DirectiveError
	return errors.As(err, &dirErr)
}

// IsStructuralError reports whether the error is a StructuralError.
func IsStructuralError(err error) bool {
	var structErr *StructuralError
	return errors.As(err, &structErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
