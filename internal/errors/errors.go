// Package errors provides standardized error handling for codetyper.
// It defines the error kinds each pipeline stage can fail with, typed errors
// carrying the path, URL or parameter involved, and helpers for consistent
// creation, wrapping and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// NetworkOrParseFailure: remote listing or content unreachable or malformed
	NetworkOrParseFailure
	// FilesystemFailure: unreadable local path or entry
	FilesystemFailure
	// EmptyPool: enumeration succeeded but yielded zero files
	EmptyPool
	// InvalidContent: selected file is not valid UTF-8 text
	InvalidContent
	// TerminalModeFailure: raw mode could not be engaged or restored
	TerminalModeFailure
	// InvalidConfig: configuration file or flags rejected
	InvalidConfig
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case NetworkOrParseFailure:
		return "network"
	case FilesystemFailure:
		return "filesystem"
	case EmptyPool:
		return "empty_pool"
	case InvalidContent:
		return "invalid_content"
	case TerminalModeFailure:
		return "terminal"
	case InvalidConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Common error constants for frequently occurring errors
var (
	ErrEmptyPool   = &ApplicationError{msg: "no files found", kind: EmptyPool}
	ErrNoSource    = &ApplicationError{msg: "no valid source provided", kind: InvalidConfig}
	ErrNotTerminal = &ApplicationError{msg: "standard input is not a terminal", kind: TerminalModeFailure}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// NewKind creates an error of the given kind wrapping err (which may be nil)
func NewKind(msg string, kind ErrorKind, err error) *ApplicationError {
	return &ApplicationError{msg: msg, err: err, kind: kind}
}

// FileError represents errors related to local file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// RemoteError represents errors talking to the remote listing API
type RemoteError struct {
	ApplicationError
	url    string
	status int
}

// NewRemoteError creates a new remote error. status is 0 when no response was received.
func NewRemoteError(msg string, url string, status int, err error) *RemoteError {
	return &RemoteError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: NetworkOrParseFailure,
		},
		url:    url,
		status: status,
	}
}

// Error returns the remote error message
func (e *RemoteError) Error() string {
	msg := e.msg
	if e.url != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.url)
	}
	if e.status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.status)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// URL returns the request URL associated with the error
func (e *RemoteError) URL() string {
	return e.url
}

// Status returns the HTTP status code, or 0 if no response was received
func (e *RemoteError) Status() int {
	return e.status
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidConfig,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context.
// The wrapper inherits the kind of the wrapped error.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: KindOf(err),
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: KindOf(err),
	}
}

type kinder interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain,
// or Unknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinder); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsEmptyPool checks if the error is a "no files found" error
func IsEmptyPool(err error) bool {
	return KindOf(err) == EmptyPool
}

// IsInvalidContent checks if the error reports a non-text file
func IsInvalidContent(err error) bool {
	return KindOf(err) == InvalidContent
}

// IsTerminalModeFailure checks if the error came from raw mode handling
func IsTerminalModeFailure(err error) bool {
	return KindOf(err) == TerminalModeFailure
}

// IsNetworkFailure checks if the error is a remote network or parse failure
func IsNetworkFailure(err error) bool {
	return KindOf(err) == NetworkOrParseFailure
}

// IsFilesystemFailure checks if the error is a local filesystem failure
func IsFilesystemFailure(err error) bool {
	return KindOf(err) == FilesystemFailure
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return KindOf(err) == InvalidConfig
}
