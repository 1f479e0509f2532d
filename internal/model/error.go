package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeFetchFailed        = "FETCH_FAILED"
	ErrCodeMutationFailed     = "MUTATION_FAILED"
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeRestaurantNotFound = "RESTAURANT_NOT_FOUND"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeBusy               = "BUSY"
	ErrCodeUnknownField       = "UNKNOWN_FIELD"
	ErrCodeInvalidFieldValue  = "INVALID_FIELD_VALUE"
	ErrCodeGateClosed         = "GATE_CLOSED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a console error carrying a stable code.
type DomainError struct {
	Code    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError with the same code, so wrapped copies
// still compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e that carries cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, cause: cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrFetchFailed        = NewDomainError(ErrCodeFetchFailed, "failed to load restaurant details")
	ErrMutationFailed     = NewDomainError(ErrCodeMutationFailed, "remote store rejected the change")
	ErrItemNotFound       = NewDomainError(ErrCodeItemNotFound, "item not found")
	ErrRestaurantNotFound = NewDomainError(ErrCodeRestaurantNotFound, "no restaurant found for this account")
	ErrInvalidState       = NewDomainError(ErrCodeInvalidState, "operation not allowed in the current mode")
	ErrBusy               = NewDomainError(ErrCodeBusy, "a request is already in flight")
	ErrUnknownField       = NewDomainError(ErrCodeUnknownField, "unknown field")
	ErrInvalidFieldValue  = NewDomainError(ErrCodeInvalidFieldValue, "invalid value for field")
	ErrGateClosed         = NewDomainError(ErrCodeGateClosed, "no deletion awaiting confirmation")
)
