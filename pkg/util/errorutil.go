package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the registry core and the HTTP boundary.
const (
	CodeInvalidData         = "INVALID_DATA"
	CodeInvalidDate         = "INVALID_DATE"
	CodeOperationNotAllowed = "OPERATION_NOT_ALLOWED"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeLoanNotFound        = "LOAN_NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Only the Code is compared.
var (
	ErrInvalidData         = &DomainError{Code: CodeInvalidData}
	ErrInvalidDate         = &DomainError{Code: CodeInvalidDate}
	ErrOperationNotAllowed = &DomainError{Code: CodeOperationNotAllowed}
	ErrItemNotFound        = &DomainError{Code: CodeItemNotFound}
	ErrLoanNotFound        = &DomainError{Code: CodeLoanNotFound}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code. A date parse failure is also a kind of invalid data.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return e.Code == CodeInvalidDate && t.Code == CodeInvalidData
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewInvalidData(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidData, message, http.StatusBadRequest, details)
}

// NewInvalidDate wraps a parse failure for the given raw value.
func NewInvalidDate(raw string, err error) error {
	return &DomainError{
		Code:       CodeInvalidDate,
		Message:    fmt.Sprintf("invalid date %q", raw),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"date": raw},
		Err:        err,
	}
}

func NewOperationNotAllowed(message string, details map[string]any) error {
	return NewDomainError(CodeOperationNotAllowed, message, http.StatusConflict, details)
}

func NewItemNotFound(message string, details map[string]any) error {
	return NewDomainError(CodeItemNotFound, message, http.StatusNotFound, details)
}

func NewLoanNotFound(details map[string]any) error {
	return NewDomainError(CodeLoanNotFound, "loan not found", http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
