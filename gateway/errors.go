// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure categories an operation can produce.
type Kind int

const (
	// KindUpstream covers provider request failures. Mapped to 500 with a
	// generic message; the underlying error only reaches the log.
	KindUpstream Kind = iota
	// KindInvalidInput covers malformed or unresolvable caller input.
	KindInvalidInput
	// KindNotFound means the provider has no record for the request.
	KindNotFound
	// KindConfig covers server-side misconfiguration, e.g. a missing key.
	KindConfig
)

// HTTPStatus maps a failure kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a categorized operation failure. Message is safe to return to the
// caller; Err carries the wrapped cause for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func configError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// AsError converts any error to *Error, categorizing unknown ones as
// upstream failures with a generic caller-facing message.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return upstream("Request failed", err)
}

// classifyProviderError maps a provider client error to a failure kind. The
// Go client reports status words inside the error text, so the not-found
// family is detected by substring the same way quota and rate-limit errors
// are detected elsewhere in the ecosystem.
func classifyProviderError(err error, genericMessage, notFoundMessage string) *Error {
	errStr := strings.ToUpper(err.Error())

	if strings.Contains(errStr, "ZERO_RESULTS") || strings.Contains(errStr, "NOT_FOUND") {
		return notFound(notFoundMessage)
	}

	return upstream(genericMessage, err)
}
