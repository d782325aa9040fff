// Package apperror berisi taksonomi error domain yang dipakai semua fitur.
// Service mengembalikan error ini; controller menerjemahkannya ke status HTTP
// lewat helper.FromError.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrAssetUnavailable    = errors.New("asset unavailable")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
)

type Error struct {
	Kind    error
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newf(ErrValidation, format, args...)
}

// ValidationField: satu field gagal validasi.
func ValidationField(field, msg string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Message: msg,
		Fields:  map[string][]string{field: {msg}},
	}
}

func InvalidTransition(from, to string) *Error {
	return newf(ErrInvalidTransition, "transisi status dari %q ke %q tidak diizinkan", from, to)
}

func AssetUnavailable(format string, args ...any) *Error {
	return newf(ErrAssetUnavailable, format, args...)
}

func InsufficientBalance(available, requested int64) *Error {
	return newf(ErrInsufficientBalance, "saldo tidak cukup (saldo=%d, butuh=%d)", available, requested)
}

func Conflict(format string, args ...any) *Error {
	return newf(ErrConcurrencyConflict, format, args...)
}

func NotFound(what string) *Error {
	return newf(ErrNotFound, "%s tidak ditemukan", what)
}

func Forbidden(format string, args ...any) *Error {
	return newf(ErrForbidden, format, args...)
}

// Retryable: hanya konflik konkurensi yang aman diulang oleh klien.
func Retryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
