package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Protocol errors
	ErrCodeUnknownEvent   ErrorCode = "UNKNOWN_EVENT"
	ErrCodeUnknownSlice   ErrorCode = "UNKNOWN_SLICE"
	ErrCodePayloadInvalid ErrorCode = "PAYLOAD_INVALID"

	// Collaborator errors
	ErrCodeMirrorWrite   ErrorCode = "MIRROR_WRITE"
	ErrCodeMirrorRestore ErrorCode = "MIRROR_RESTORE"
	ErrCodeMailSend      ErrorCode = "MAIL_SEND"
	ErrCodeUploadFailed  ErrorCode = "UPLOAD_FAILED"
)

// SyncError represents a structured error with context
type SyncError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SyncError) WithDetail(key string, value interface{}) *SyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SyncError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SyncError
func New(code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SyncError
func Wrap(err error, code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific SyncError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	syncErr, ok := err.(*SyncError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return syncErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	syncErr, ok := err.(*SyncError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return syncErr.Code
}
