package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SyncError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SyncError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ConfigValidation creates an error for a configuration that parsed but
// failed validation
func ConfigValidation(reason string) *SyncError {
	return New(ErrCodeConfigValidation, fmt.Sprintf("configuration validation failed: %s", reason))
}

// UnknownEvent creates an error for an event name no handler exists for
func UnknownEvent(event string) *SyncError {
	return New(ErrCodeUnknownEvent, fmt.Sprintf("unknown event '%s'", event)).
		WithDetail("event", event)
}

// UnknownSlice creates an error for a slice name outside the fixed set
func UnknownSlice(slice string) *SyncError {
	return New(ErrCodeUnknownSlice, fmt.Sprintf("unknown slice '%s'", slice)).
		WithDetail("slice", slice)
}

// PayloadInvalid creates an error for a payload that failed shape validation
func PayloadInvalid(event string, err error) *SyncError {
	return Wrap(err, ErrCodePayloadInvalid, fmt.Sprintf("invalid payload for '%s'", event)).
		WithDetail("event", event)
}

// MirrorWrite creates an error for a failed durable mirror write
func MirrorWrite(slice string, err error) *SyncError {
	return Wrap(err, ErrCodeMirrorWrite, fmt.Sprintf("failed to mirror slice '%s'", slice)).
		WithDetail("slice", slice)
}

// MirrorRestore creates an error for a mirrored slice that failed to load
func MirrorRestore(slice string, err error) *SyncError {
	return Wrap(err, ErrCodeMirrorRestore, fmt.Sprintf("failed to restore slice '%s'", slice)).
		WithDetail("slice", slice)
}

// MailSend creates an error for a failed confirmation mail
func MailSend(recipient string, err error) *SyncError {
	return Wrap(err, ErrCodeMailSend, fmt.Sprintf("failed to send mail to %s", recipient)).
		WithDetail("recipient", recipient)
}

// UploadFailed creates an error for a failed file upload
func UploadFailed(err error) *SyncError {
	return Wrap(err, ErrCodeUploadFailed, "failed to store uploaded file")
}
