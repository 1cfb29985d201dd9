package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindUnknown Kind = iota
	KindInputValidation
	KindConnectionFailure
	KindRateLimited
	KindMalformedResponse
	KindSchemaViolation
	KindNotFound
	KindTransientResource
)

var kindCodes = map[Kind]string{
	KindUnknown:           "internal",
	KindInputValidation:   "input_validation_failure",
	KindConnectionFailure: "connection_failure",
	KindRateLimited:       "rate_limited",
	KindMalformedResponse: "malformed_response",
	KindSchemaViolation:   "schema_violation",
	KindNotFound:          "not_found",
	KindTransientResource: "transient_resource_failure",
}

func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindUnknown]
}

// Error carries a Kind so callers can branch without string matching.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether a retry wrapper may try again. Only transport
// level failures qualify; bad input and contract breaches never do.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindConnectionFailure, KindRateLimited:
		return true
	}
	return false
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInputValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindMalformedResponse, KindSchemaViolation:
		return http.StatusBadGateway
	case KindConnectionFailure, KindTransientResource:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
