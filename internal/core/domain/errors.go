package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates a missing or invalid credential.
	// Fatal to the in-flight request; the caller must fix configuration.
	ErrConfiguration = errors.New("configuration invalid")

	// ErrTransport indicates a network failure, timeout or non-success
	// status from the judgment or live embedding service.
	// Recoverable by caller retry.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyReply indicates the judgment service returned no choices.
	// A transport-class failure: errors.Is(err, ErrTransport) matches,
	// so retry-on-transport callers cover empty replies too.
	ErrEmptyReply = fmt.Errorf("%w: empty reply", ErrTransport)

	// ErrParse indicates the judgment reply was malformed or incomplete.
	// Recoverable by caller retry or fallback to manual selection.
	ErrParse = errors.New("unparseable reply")

	// ErrScoring indicates an embedding dimension mismatch or a
	// similarity-computation fault. Absorbed per candidate, never
	// surfaced to the caller.
	ErrScoring = errors.New("scoring failure")

	// ErrValidation indicates an empty or invalid folder-profile list
	ErrValidation = errors.New("invalid input")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
