// Package errors provides the structured error type used across the
// generation pipeline, the error codes of its taxonomy and a collector for
// per-page failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes
const (
	ErrCodeReservedName    = "ERR_RESERVED_NAME"
	ErrCodeCacheRead       = "ERR_CACHE_READ"
	ErrCodeDirectoryCreate = "ERR_DIRECTORY_CREATE"
	ErrCodeWriteFailed     = "ERR_WRITE_FAILED"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeCatalogInvalid  = "ERR_CATALOG_INVALID"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeInternalError   = "ERR_INTERNAL"
)

// Sentinels for errors.Is. Matching is by type and code.
var (
	ErrReservedName    = &DocsError{Type: ErrorTypeValidation, Code: ErrCodeReservedName}
	ErrCacheRead       = &DocsError{Type: ErrorTypeIO, Code: ErrCodeCacheRead}
	ErrDirectoryCreate = &DocsError{Type: ErrorTypeIO, Code: ErrCodeDirectoryCreate}
	ErrWriteFailed     = &DocsError{Type: ErrorTypeIO, Code: ErrCodeWriteFailed}
	ErrRenderFailed    = &DocsError{Type: ErrorTypeBuild, Code: ErrCodeRenderFailed}
)

// DocsError is a structured error type with context.
type DocsError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Page     string
	FilePath string
	// Fatal marks errors that abort the whole generation run rather than a
	// single page.
	Fatal bool
}

// Error implements the error interface.
func (e *DocsError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Page != "" {
		parts = append(parts, "page:"+e.Page)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DocsError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *DocsError) Is(target error) bool {
	var t *DocsError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DocsError) WithContext(key string, value interface{}) *DocsError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath adds file location information.
func (e *DocsError) WithPath(filePath string) *DocsError {
	e.FilePath = filePath

	return e
}

// WithPage adds page context.
func (e *DocsError) WithPage(reference string) *DocsError {
	e.Page = reference

	return e
}

// NewReservedNameError reports a URI that collides with the asset directory.
func NewReservedNameError(uri string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeReservedName,
		Message: fmt.Sprintf("filename can't be %q", uri),
	}
}

// NewCacheReadError wraps a failed read of an existing output file.
func NewCacheReadError(path string, cause error) *DocsError {
	return &DocsError{
		Type:     ErrorTypeIO,
		Code:     ErrCodeCacheRead,
		Message:  "reading cached output",
		Cause:    cause,
		FilePath: path,
	}
}

// NewDirectoryCreateError reports a directory that could not be created after
// the allowed attempts. It aborts the run.
func NewDirectoryCreateError(dir string, attempts int, cause error) *DocsError {
	return &DocsError{
		Type:     ErrorTypeIO,
		Code:     ErrCodeDirectoryCreate,
		Message:  fmt.Sprintf("creating directory failed after %d attempts", attempts),
		Cause:    cause,
		FilePath: dir,
		Fatal:    true,
	}
}

// NewWriteError wraps a failed write of an output file.
func NewWriteError(path string, cause error) *DocsError {
	return &DocsError{
		Type:     ErrorTypeIO,
		Code:     ErrCodeWriteFailed,
		Message:  "writing output file",
		Cause:    cause,
		FilePath: path,
	}
}

// NewRenderError wraps a rendering failure of one page.
func NewRenderError(reference string, cause error) *DocsError {
	return &DocsError{
		Type:    ErrorTypeBuild,
		Code:    ErrCodeRenderFailed,
		Message: "rendering page",
		Cause:   cause,
		Page:    reference,
	}
}

// NewCatalogError creates a catalog validation error.
func NewCatalogError(message string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeCatalogInvalid,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
	}
}

// IsFatal reports whether err should abort the generation run.
func IsFatal(err error) bool {
	var de *DocsError
	for err != nil {
		if errors.As(err, &de) {
			if de.Fatal {
				return true
			}
			err = de.Cause
			continue
		}
		return false
	}

	return false
}

// IsReservedName checks if an error is a reserved name collision.
func IsReservedName(err error) bool {
	return errors.Is(err, ErrReservedName)
}

// Code returns the code of the outermost DocsError in the chain, or
// ErrCodeInternalError.
func Code(err error) string {
	var de *DocsError
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}

	return ErrCodeInternalError
}

// Wrap wraps an error with a type and code, keeping page and path context
// when err is already a DocsError.
func Wrap(err error, errType ErrorType, code, message string) *DocsError {
	if err == nil {
		return nil
	}

	wrapped := &DocsError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}

	var de *DocsError
	if errors.As(err, &de) {
		wrapped.Page = de.Page
		wrapped.FilePath = de.FilePath
		wrapped.Context = de.Context
	}

	return wrapped
}
