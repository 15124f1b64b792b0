package audio

func (e *AudioError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// AudioError represents a failure to read, decode or convert audio
type AudioError struct {
	Path    string `json:"path,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AudioError) Unwrap() error {
	return e.Cause
}

// Audio error codes
const (
	ErrCodeOpen          = "OPEN_FAILED"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeDecoding      = "DECODING_FAILED"
	ErrCodeEncoding      = "ENCODING_FAILED"
	ErrCodeUnsupported   = "UNSUPPORTED_AUDIO"
)

// NewAudioError creates a new audio error
func NewAudioError(path, code, message string, cause error) *AudioError {
	return &AudioError{
		Path:    path,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
