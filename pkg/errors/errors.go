// Package errors provides the structured error types used across the
// interpret training core, together with thin wrappers around
// cockroachdb/errors so callers get stack traces and errors.Is/As support
// without importing two error packages.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// CapacityError reports that a size computation would overflow the platform
// int before any allocation was attempted.
type CapacityError struct {
	Op string
	A  int
	B  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("interpret: %s: size computation %d * %d overflows int", e.Op, e.A, e.B)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *CapacityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("multiplicand", e.A).
		Int("multiplier", e.B).
		Str("type", "CapacityError")
}

// NewCapacityError creates a CapacityError with a stack trace attached.
func NewCapacityError(op string, a, b int) error {
	return errors.WithStack(&CapacityError{Op: op, A: a, B: b})
}

// AllocationError reports that the allocator returned no buffer. Allocation
// failure is non-retryable within the failed operation; the caller may retry
// the whole operation after freeing memory elsewhere.
type AllocationError struct {
	Op    string
	Kind  string
	Count int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("interpret: %s: failed to allocate %d %s elements", e.Op, e.Count, e.Kind)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *AllocationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Int("count", e.Count).
		Str("type", "AllocationError")
}

// NewAllocationError creates an AllocationError with a stack trace attached.
func NewAllocationError(op, kind string, count int) error {
	return errors.WithStack(&AllocationError{Op: op, Kind: kind, Count: count})
}

// RangeError reports a raw value that violates its declared bound. For bin
// codes this is an upstream contract violation: binning is expected to have
// produced only legal codes, but the core checks anyway rather than trusting
// the caller.
type RangeError struct {
	Op       string
	Feature  int
	Instance int
	Value    int64
	Bound    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("interpret: %s: value %d at feature %d, instance %d outside [0, %d)",
		e.Op, e.Value, e.Feature, e.Instance, e.Bound)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *RangeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("feature", e.Feature).
		Int("instance", e.Instance).
		Int64("value", e.Value).
		Int("bound", e.Bound).
		Str("type", "RangeError")
}

// NewRangeError creates a RangeError with a stack trace attached.
func NewRangeError(op string, feature, instance int, value int64, bound int) error {
	return errors.WithStack(&RangeError{Op: op, Feature: feature, Instance: instance, Value: value, Bound: bound})
}

// DimensionError reports an input buffer whose length does not match the
// shape implied by the call.
type DimensionError struct {
	Op       string
	Buffer   string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("interpret: %s: buffer %q has length %d, need %d", e.Op, e.Buffer, e.Got, e.Expected)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("buffer", e.Buffer).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op, buffer string, expected, got int) error {
	return errors.WithStack(&DimensionError{Op: op, Buffer: buffer, Expected: expected, Got: got})
}

// ValidationError reports an argument whose value is unusable, for example a
// multiclass task with fewer than three classes or an Initialize call on a
// dataset that is already initialized.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("interpret: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// NotFittedError reports use of an estimator before its Fit method ran.
type NotFittedError struct {
	EstimatorName string
	Method        string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("interpret: %s: not fitted yet. Call Fit() before using %s()", e.EstimatorName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator_name", e.EstimatorName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(estimator, method string) error {
	return errors.WithStack(&NotFittedError{EstimatorName: estimator, Method: method})
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when a non-empty buffer is required.
	ErrEmptyData = New("empty data")
)
