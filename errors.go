package tack

import "errors"

var (
	// ErrPermissionMissing is returned by Start when the permission checker
	// refuses playback.
	ErrPermissionMissing = errors.New("tack: start permission missing")
	// ErrConnectionMissing is returned by Start after Destroy.
	ErrConnectionMissing = errors.New("tack: engine destroyed")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("tack: sample rate must be positive")
)
