package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a stable error category. Handlers map codes to HTTP
// statuses; messages are free to change, codes are not.
type Code string

const (
	CodeValidation     Code = "validation_error"
	CodeNotFound       Code = "not_found"
	CodeEncoderProbe   Code = "encoder_probe_error"
	CodeEncoderProcess Code = "encoder_process_error"
	CodeForeignKey     Code = "foreign_key_error"
	CodeDatabase       Code = "database_error"
	CodeInvalidPath    Code = "invalid_path"
	CodeProcessing     Code = "processing_error"
)

// AppError carries a category, a human-readable message and the wrapped
// low-level cause (if any).
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func EncoderProbe(err error) *AppError {
	return &AppError{Code: CodeEncoderProbe, Message: "unable to probe media file", Err: err}
}

func EncoderProcess(err error) *AppError {
	return &AppError{Code: CodeEncoderProcess, Message: "media processing failed", Err: err}
}

func ForeignKey(err error) *AppError {
	return &AppError{Code: CodeForeignKey, Message: "referenced record does not exist", Err: err}
}

func Database(err error) *AppError {
	return &AppError{Code: CodeDatabase, Message: "database error", Err: err}
}

func Processing(err error) *AppError {
	return &AppError{Code: CodeProcessing, Message: "processing failed", Err: err}
}

func InvalidPath(path string) *AppError {
	return &AppError{Code: CodeInvalidPath, Message: fmt.Sprintf("invalid storage path: %s", path)}
}

// CodeOf returns the category of err if it wraps an *AppError.
func CodeOf(err error) (Code, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
