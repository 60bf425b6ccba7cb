// Unified error handling for the earthpath toolpath engine
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigTypology    ErrorCode = "CONFIG_TYPOLOGY"
	ErrConfigPrinter     ErrorCode = "CONFIG_PRINTER"
	ErrConfigLayerHeight ErrorCode = "CONFIG_LAYER_HEIGHT"
	ErrConfigValue       ErrorCode = "CONFIG_VALUE"
	ErrConfigMaterial    ErrorCode = "CONFIG_MATERIAL"

	// Geometry errors
	ErrGeometryDegenerate ErrorCode = "GEOMETRY_DEGENERATE"
	ErrGeometryNegative   ErrorCode = "GEOMETRY_NEGATIVE"

	// Envelope findings (recorded in the compatibility report; these codes
	// exist for callers that promote a report to an error)
	ErrEnvelopeReach  ErrorCode = "ENVELOPE_REACH"
	ErrEnvelopeHeight ErrorCode = "ENVELOPE_HEIGHT"

	// Emission errors
	ErrEmitDialect ErrorCode = "EMIT_DIALECT"
)

// Error is the unified error type for the engine.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Field names the offending request field or parameter, if any
	Field string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// SetField sets the offending field name
func (e *Error) SetField(field string) *Error {
	e.Field = field
	return e
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Configuration errors

// UnknownTypologyError reports an unrecognized typology tag.
func UnknownTypologyError(tag string) *Error {
	return New(ErrConfigTypology, fmt.Sprintf("unknown typology: %q", tag)).
		SetField("typology")
}

// UnknownPrinterError reports an unrecognized printer id on a strict lookup.
func UnknownPrinterError(id string) *Error {
	return New(ErrConfigPrinter, fmt.Sprintf("unknown printer id: %q", id)).
		SetField("printer_id")
}

// InvalidLayerHeightError reports a non-positive layer height.
func InvalidLayerHeightError(value float64) *Error {
	return New(ErrConfigLayerHeight, fmt.Sprintf("layer height must be positive, got %g", value)).
		SetField("layer_height")
}

// ConfigValueError reports an out-of-range or malformed request value.
func ConfigValueError(field string, reason string) *Error {
	return New(ErrConfigValue, reason).SetField(field)
}

// UnknownMaterialError reports an unrecognized material mix name.
func UnknownMaterialError(name string) *Error {
	return New(ErrConfigMaterial, fmt.Sprintf("unknown material mix: %q", name)).
		SetField("material")
}

// Geometry errors

// DegenerateShapeError reports geometry that cannot produce a valid toolpath.
func DegenerateShapeError(reason string) *Error {
	return New(ErrGeometryDegenerate, reason)
}

// NegativeDimensionError reports a dimension that must be positive.
func NegativeDimensionError(field string, value float64) *Error {
	return New(ErrGeometryNegative, fmt.Sprintf("%s must be positive, got %g", field, value)).
		SetField(field)
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// CodeOf returns the error code, or "" for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsConfig checks if error is a configuration error
func IsConfig(err error) bool {
	return Is(err, ErrConfigTypology) ||
		Is(err, ErrConfigPrinter) ||
		Is(err, ErrConfigLayerHeight) ||
		Is(err, ErrConfigValue) ||
		Is(err, ErrConfigMaterial)
}

// IsGeometry checks if error is a geometry error
func IsGeometry(err error) bool {
	return Is(err, ErrGeometryDegenerate) ||
		Is(err, ErrGeometryNegative)
}
