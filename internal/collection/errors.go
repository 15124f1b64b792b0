package collection

import "errors"

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Error represents a failed collection operation
type Error struct {
	Op      string `json:"op"`
	Path    string `json:"path,omitempty"`
	Label   string `json:"label,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Collection error codes
const (
	ErrCodeScan           = "SCAN_FAILED"
	ErrCodeRead           = "READ_FAILED"
	ErrCodeParse          = "PARSE_FAILED"
	ErrCodeWrite          = "WRITE_FAILED"
	ErrCodeInvalidLabel   = "INVALID_LABEL"
	ErrCodeDuplicateLabel = "DUPLICATE_LABEL"
	ErrCodeUnknownLabel   = "UNKNOWN_LABEL"
)

// NewError creates a new collection error
func NewError(op, code, message string, cause error) *Error {
	return &Error{
		Op:      op,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func (e *Error) withPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) withLabel(label string) *Error {
	e.Label = label
	return e
}

// IsCode reports whether err carries a collection error with the given code
func IsCode(err error, code string) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
