package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when an index is not found
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSameName is returned when trying to rename to the same name
	ErrSameName = errors.New("same name provided")

	// ErrNoSubSpans is returned when a span-near matcher is constructed with no sub-spans
	ErrNoSubSpans = errors.New("at least one sub-span is required")

	// ErrNegativeSlop is returned when a span-near matcher is constructed with a negative slop
	ErrNegativeSlop = errors.New("slop cannot be negative")

	// ErrSpansContract is returned when a sub-span iterator violates its contract
	// (e.g. reports a document without yielding a position, or yields
	// non-monotonic positions). Continuing after such a violation would
	// silently corrupt the match bookkeeping, so it is surfaced instead.
	ErrSpansContract = errors.New("spans iterator contract violation")
)

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
	IndexName  string
}

func (e *DocumentNotFoundError) Error() string {
	if e.IndexName != "" {
		return fmt.Sprintf("document with ID '%s' not found in index '%s'", e.DocumentID, e.IndexName)
	}
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID, indexName string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID, IndexName: indexName}
}

// NegativeSlopError represents an invalid negative slop configuration
type NegativeSlopError struct {
	Slop int
}

func (e *NegativeSlopError) Error() string {
	return fmt.Sprintf("slop cannot be negative, got %d", e.Slop)
}

func (e *NegativeSlopError) Is(target error) bool {
	return target == ErrNegativeSlop
}

// NewNegativeSlopError creates a new NegativeSlopError
func NewNegativeSlopError(slop int) *NegativeSlopError {
	return &NegativeSlopError{Slop: slop}
}

// SpansContractError represents a contract violation by a sub-span iterator
type SpansContractError struct {
	Detail string
}

func (e *SpansContractError) Error() string {
	return fmt.Sprintf("spans iterator contract violation: %s", e.Detail)
}

func (e *SpansContractError) Is(target error) bool {
	return target == ErrSpansContract
}

// NewSpansContractError creates a new SpansContractError
func NewSpansContractError(detail string) *SpansContractError {
	return &SpansContractError{Detail: detail}
}

// ValidationError represents an input validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
