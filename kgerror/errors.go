// Package kgerror defines the error taxonomy shared by the indexer
// pipeline: decode errors, storage errors, and cache errors, each
// carrying a stable code so callers can errors.As into the kind they
// care about instead of matching on message text.
package kgerror

import "fmt"

// Code identifies the taxonomy bucket a Error belongs to.
type Code string

const (
	CodeDecode       Code = "DECODE_ERROR"
	CodeStorage      Code = "STORAGE_ERROR"
	CodeCacheDB      Code = "CACHE_DATABASE_ERROR"
	CodeCacheDecode  Code = "CACHE_DESERIALIZE_ERROR"
	CodeCacheMiss    Code = "CACHE_NOT_FOUND"
	CodeTask         Code = "TASK_ERROR"
	CodeStream       Code = "STREAM_ERROR"
	CodePackageRef   Code = "PACKAGE_SOURCE_ERROR"
)

// Error is the single error type used across the pipeline. Code
// identifies the taxonomy bucket; Op names the failing operation for
// log correlation; Err is the wrapped cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err under the given code and operation name.
func New(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Retriable reports whether the error kind is one the cache client's
// retry combinator should retry. Only infrastructure-level cache
// failures are retried; NotFound and Deserialize are not.
func Retriable(err error) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Code == CodeCacheDB
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
