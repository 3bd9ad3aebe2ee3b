package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrProbeDisconnected = errors.New("probe is not connected")
	ErrAlreadyFinalized  = errors.New("meal already finalized")
)
