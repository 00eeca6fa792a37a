package relay

import "errors"

// Sentinel errors surfaced by the connection manager. All of them are
// caller errors, never fatal to the process.
var (
	// ErrChannelNotFound means the referenced channel id does not exist.
	ErrChannelNotFound = errors.New("relay: channel not found")

	// ErrInvalidCredentials means the channel's stored credentials failed
	// the driver's validation, so the channel cannot be activated.
	ErrInvalidCredentials = errors.New("relay: invalid channel credentials")

	// ErrChannelInactive means outbound traffic was routed to a channel
	// that has no live driver (never activated, or deactivated).
	ErrChannelInactive = errors.New("relay: channel not found or inactive")
)
