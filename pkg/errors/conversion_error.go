package errors

import (
	"fmt"

	"convert-mastery/pkg/errors/i18n"
)

const (
	CodeMissingUpload = "missing_upload"
	CodeProcessing    = "processing_error"
	CodeConversion    = "conversion_error"
	CodeUpload        = "upload_error"
	CodeInternal      = "internal_error"
)

// ConversionError is the error kind every route reports to its client.
// Message is user facing; Details is only set where the route exposes the
// underlying cause.
type ConversionError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingUpload = func(field string) *ConversionError {
		return &ConversionError{Code: CodeMissingUpload, Message: i18n.T(CodeMissingUpload + "." + field)}
	}
	ErrProcessing = func(err error) *ConversionError {
		return &ConversionError{Code: CodeProcessing, Message: i18n.T(CodeProcessing), Err: err}
	}
	ErrConversion = func(err error) *ConversionError {
		return &ConversionError{Code: CodeConversion, Message: i18n.T(CodeConversion), Details: detailsOf(err), Err: err}
	}
	ErrUpload = func(err error) *ConversionError {
		return &ConversionError{Code: CodeUpload, Message: i18n.T(CodeUpload), Details: detailsOf(err), Err: err}
	}
)

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
