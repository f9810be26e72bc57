// Package cgkaerr defines the tagged error kinds the CGKA core returns,
// per spec.md §7: structural tree-precondition violations, ECIES
// failures, and wire-codec failures are distinguished so callers can
// tell a malformed message from a local bug.
package cgkaerr

import "fmt"

// TreeError reports a structural precondition violation in the ratchet
// tree: an out-of-range index, a malformed DirectPathMessage, a missing
// resolution ancestor with a known private key, an attempt to encrypt a
// direct path from a non-leaf, or a node expected to be Filled that is
// Blank.
type TreeError struct {
	Msg string
}

func (e *TreeError) Error() string { return "tree error: " + e.Msg }

// NewTreeError builds a TreeError with a formatted message.
func NewTreeError(format string, args ...interface{}) *TreeError {
	return &TreeError{Msg: fmt.Sprintf(format, args...)}
}

// EncryptionError wraps a failure from the ECIES oracle, on either the
// encrypting or decrypting side.
type EncryptionError struct {
	Msg string
	Err error
}

func (e *EncryptionError) Error() string {
	if e.Err != nil {
		return "encryption error: " + e.Msg + ": " + e.Err.Error()
	}
	return "encryption error: " + e.Msg
}

func (e *EncryptionError) Unwrap() error { return e.Err }

// NewEncryptionError wraps err with a descriptive message.
func NewEncryptionError(msg string, err error) *EncryptionError {
	return &EncryptionError{Msg: msg, Err: err}
}

// SerializationError reports a wire-codec failure: a length mismatch,
// an unknown discriminant, or an unexpected end of input.
type SerializationError struct {
	Msg string
}

func (e *SerializationError) Error() string { return "serialization error: " + e.Msg }

// NewSerializationError builds a SerializationError with a formatted
// message.
func NewSerializationError(format string, args ...interface{}) *SerializationError {
	return &SerializationError{Msg: fmt.Sprintf(format, args...)}
}
