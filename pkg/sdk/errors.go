package sdk

import "fmt"

// ValidationError reports a malformed identifier. It is raised before any
// network access takes place.
type ValidationError struct {
	Field  string // "NetID" or "group ID"
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CredentialError reports a client certificate bundle that could not be
// loaded, or that the service refused during the TLS handshake.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("client certificate %s: %v", e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// NetworkError reports a failed HTTP exchange: connection refused, timeout,
// server certificate verification, or a body that could not be read.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not the expected membership
// envelope.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("decode response (HTTP %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
