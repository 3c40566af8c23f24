package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The cause (unknown email,
	// wrong password, disabled account) is never exposed to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or unverifiable session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoAccess indicates an authenticated principal lacking org or role privilege.
	ErrNoAccess = errors.New("no access to this organization")
	// ErrConfiguration indicates a missing or malformed deployment invariant
	// (system account, permission table). Fatal at startup, never defaulted.
	ErrConfiguration = errors.New("configuration error")
	// ErrStoreUnavailable indicates a transient storage failure, safe to retry.
	// Must never be coerced into ErrInvalidCredentials or ErrNoAccess.
	ErrStoreUnavailable = errors.New("store unavailable")
)
