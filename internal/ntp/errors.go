// ABOUTME: Error kinds surfaced by the NTP client
// ABOUTME: All sync-path failures wrap one of these sentinels
package ntp

import "errors"

var (
	// ErrNetwork covers resolution and socket failures.
	ErrNetwork = errors.New("ntp: network failure")

	// ErrTimeout means no response arrived within the configured deadline.
	ErrTimeout = errors.New("ntp: request timed out")

	// ErrServer means a datagram arrived but failed protocol validation.
	ErrServer = errors.New("ntp: invalid server response")

	// ErrInvalidParam means the caller passed a malformed config or name.
	ErrInvalidParam = errors.New("ntp: invalid parameter")

	// ErrNotInitialized means the client was closed or never created.
	ErrNotInitialized = errors.New("ntp: client not initialized")
)
