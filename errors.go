package hdmi

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured pipeline error with operation context
type Error struct {
	Op    string    // Operation that failed (e.g., "PROBE", "FRAME_UPDATE")
	Code  ErrorCode // High-level error category
	Msg   string    // Human-readable message
	Inner error     // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("hdmi: %s (%s)", msg, strings.Join(parts, ", "))
	}

	return fmt.Sprintf("hdmi: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support against sentinels and other *Error values
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if se, ok := target.(sentinelError); ok {
		return e.Code == ErrorCode(se)
	}

	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}

	return false
}

// ErrorCode represents high-level error categories
type ErrorCode string

const (
	// ErrCodeResourceUnavailable marks a required hardware dependency
	// that could not be acquired. Fatal at probe time.
	ErrCodeResourceUnavailable ErrorCode = "resource unavailable"

	// ErrCodeProbeDeferred marks an optional dependency that is
	// declared but not ready yet. The caller should retry probing.
	ErrCodeProbeDeferred ErrorCode = "probe deferred"

	// ErrCodeInvalidGeometry marks a scanout region that cannot be
	// expressed as a DMA descriptor (e.g., row wider than the stride).
	ErrCodeInvalidGeometry ErrorCode = "invalid geometry"

	// ErrCodeDiscoveryFailure marks a configured capability channel
	// that could not be read.
	ErrCodeDiscoveryFailure ErrorCode = "capability discovery failed"

	// ErrCodeModeRejected marks a mode that violates the device limits
	// or uses an unsupported scan flag.
	ErrCodeModeRejected ErrorCode = "mode rejected"

	// ErrCodeInvalidParameters marks bad caller-supplied parameters.
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"

	// ErrCodeNotRegistered marks use of a device that was never
	// registered or has been shut down.
	ErrCodeNotRegistered ErrorCode = "device not registered"
)

// sentinelError is a bare error comparable with errors.Is against
// structured errors carrying the matching code.
type sentinelError string

func (e sentinelError) Error() string {
	return "hdmi: " + string(e)
}

// Sentinel errors
const (
	ErrResourceUnavailable = sentinelError(ErrCodeResourceUnavailable)
	ErrProbeDeferred       = sentinelError(ErrCodeProbeDeferred)
	ErrInvalidGeometry     = sentinelError(ErrCodeInvalidGeometry)
	ErrDiscoveryFailure    = sentinelError(ErrCodeDiscoveryFailure)
	ErrModeRejected        = sentinelError(ErrCodeModeRejected)
	ErrInvalidParameters   = sentinelError(ErrCodeInvalidParameters)
	ErrNotRegistered       = sentinelError(ErrCodeNotRegistered)
)

// NewError creates a new structured error
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{
		Op:   op,
		Code: code,
		Msg:  msg,
	}
}

// WrapError wraps an existing error with pipeline context. An already
// structured error keeps its code; only the operation is updated.
func WrapError(op string, code ErrorCode, inner error) *Error {
	if inner == nil {
		return nil
	}

	var he *Error
	if errors.As(inner, &he) {
		return &Error{
			Op:    op,
			Code:  he.Code,
			Msg:   he.Msg,
			Inner: inner,
		}
	}

	return &Error{
		Op:    op,
		Code:  code,
		Msg:   inner.Error(),
		Inner: inner,
	}
}

// IsCode checks if an error matches a specific error code
func IsCode(err error, code ErrorCode) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}

// IsDeferred reports whether probing should be retried later because
// an optional dependency was declared but is not available yet.
func IsDeferred(err error) bool {
	return IsCode(err, ErrCodeProbeDeferred) || errors.Is(err, ErrProbeDeferred)
}
