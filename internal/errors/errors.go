package errors

import (
	"errors"
	"fmt"
)

// Code categorizes engine failures.
type Code string

const (
	CodeUnknown Code = "unknown"

	// catalog-level: abort processing for the affected item type
	CodeUnknownItemType Code = "unknown_item_type"
	CodeEmptySnapshot   Code = "empty_snapshot"
	CodeStaleSnapshot   Code = "stale_snapshot"

	// recipe/method-level: exclude the method or recipe, keep the batch going
	CodeAffixNotInPool   Code = "affix_not_in_pool"
	CodeAffixUnreachable Code = "affix_unreachable"
	CodeUnreachable      Code = "unreachable"
	CodeNoAffixAvailable Code = "no_affix_available"
	CodeNoOpenSlots      Code = "no_open_slots"
	CodeSlotCapacity     Code = "slot_capacity"

	CodeInvalidArgument Code = "invalid_argument"
	CodeValidation      Code = "validation"
	CodeNotFound        Code = "not_found"
	CodeInternal        Code = "internal"
)

// Error is an engine error with a code and optional metadata.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a message, keeping the code of an inner *Error.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	var inner *Error
	if errors.As(err, &inner) {
		return &Error{
			Code:    inner.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(inner.Meta),
		}
	}
	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func UnknownItemType(itemType string) *Error {
	return Newf(CodeUnknownItemType, "unknown item type %q", itemType).WithMeta("item_type", itemType)
}

func AffixNotInPool(name string) *Error {
	return Newf(CodeAffixNotInPool, "affix %q not in pool", name).WithMeta("affix", name)
}

func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsRecipeScoped reports whether err only invalidates a single method or
// recipe. Such errors are logged and excluded. Anything else aborts the
// recipe's item type group.
func IsRecipeScoped(err error) bool {
	switch GetCode(err) {
	case CodeAffixNotInPool, CodeAffixUnreachable, CodeUnreachable,
		CodeNoAffixAvailable, CodeNoOpenSlots, CodeSlotCapacity, CodeInvalidArgument, CodeNotFound:
		return true
	}
	return false
}

func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
