package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Planning precondition errors. These are raised before any request is
// built and carry the message shown to the user verbatim.

type SelectionIncompleteError struct {
	*DomainError
}

func NewSelectionIncompleteError(message string) *SelectionIncompleteError {
	return &SelectionIncompleteError{DomainError: NewDomainError(message)}
}

type CarrierRequiredError struct {
	*DomainError
}

func NewCarrierRequiredError(message string) *CarrierRequiredError {
	return &CarrierRequiredError{DomainError: NewDomainError(message)}
}

// BusyError is returned when an action is triggered while another call is in flight
type BusyError struct {
	*DomainError
}

func NewBusyError() *BusyError {
	return &BusyError{DomainError: NewDomainError("a planning request is already in progress")}
}
