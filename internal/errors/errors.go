// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidOptionType     = errors.New("invalid option type")
	ErrMalformedSymbol       = errors.New("malformed option symbol")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrMarketDataUnavailable = errors.New("market data unavailable")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrRateLimited           = errors.New("rate limited")
	ErrTimeout               = errors.New("operation timed out")
	ErrConfigInvalid         = errors.New("invalid configuration")
	ErrDataNotFound          = errors.New("data not found")
	ErrDatabaseError         = errors.New("database error")
)

// SymbolError represents a failure to encode or decode an option symbol.
type SymbolError struct {
	Symbol  string
	Segment string
	Message string
	Err     error
}

func (e *SymbolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("symbol error [%s] %s: %s: %v", e.Symbol, e.Segment, e.Message, e.Err)
	}
	return fmt.Sprintf("symbol error [%s] %s: %s", e.Symbol, e.Segment, e.Message)
}

func (e *SymbolError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedSymbol
}

// NewSymbolError creates a new SymbolError.
func NewSymbolError(symbol, segment, message string, err error) *SymbolError {
	return &SymbolError{
		Symbol:  symbol,
		Segment: segment,
		Message: message,
		Err:     err,
	}
}

// QuoteError represents an error fetching market quotes.
type QuoteError struct {
	Symbols []string
	Message string
	Err     error
}

func (e *QuoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quote error %v: %s: %v", e.Symbols, e.Message, e.Err)
	}
	return fmt.Sprintf("quote error %v: %s", e.Symbols, e.Message)
}

// Unwrap classifies every quote failure as ErrMarketDataUnavailable
// while keeping the underlying cause matchable, so transport errors
// (connection refused, timeout) carry the sentinel the same way HTTP
// status errors do.
func (e *QuoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Err, ErrMarketDataUnavailable}
	}
	return []error{ErrMarketDataUnavailable}
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(symbols []string, message string, err error) *QuoteError {
	return &QuoteError{
		Symbols: symbols,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// APIError represents an error returned by the brokerage API.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%s] status %d: %s: %v", e.Endpoint, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("api error [%s] status %d: %s", e.Endpoint, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(endpoint string, status int, message string, err error) *APIError {
	return &APIError{
		Endpoint: endpoint,
		Status:   status,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
