package assets

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes asset failures.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the file does not exist under the asset root.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDecodeFailure indicates the bytes could not be decoded as the requested kind.
	ErrCodeDecodeFailure ErrorCode = "DECODE_FAILURE"

	// ErrCodeSchemaMismatch indicates decoded data does not have the expected shape,
	// or a cached key was requested as a different kind.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
)

// AssetError is returned by every failed load. A failed load never leaves
// anything cached.
type AssetError struct {
	Code    ErrorCode
	Path    string
	Message string
	Err     error
}

func (e *AssetError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Path)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an asset NotFound error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsDecodeFailure reports whether err is an asset DecodeFailure error.
func IsDecodeFailure(err error) bool { return hasCode(err, ErrCodeDecodeFailure) }

// IsSchemaMismatch reports whether err is an asset SchemaMismatch error.
func IsSchemaMismatch(err error) bool { return hasCode(err, ErrCodeSchemaMismatch) }

func hasCode(err error, code ErrorCode) bool {
	var ae *AssetError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func schemaMismatch(path, format string, args ...any) *AssetError {
	return &AssetError{Code: ErrCodeSchemaMismatch, Path: path, Message: fmt.Sprintf(format, args...)}
}
