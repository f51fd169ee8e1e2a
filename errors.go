package stun

import "errors"

// Error kinds returned by the codec, transaction engine, and server. Codec
// errors indicate malformed input or programmer misuse and are returned to
// the immediate caller without retry; Timeout and Cancelled are surfaced
// only by the transaction engine, after its retransmission schedule runs
// out or the caller's context is done.
var (
	ErrTruncatedMessage             = errors.New("stun: truncated message")
	ErrBadMagicCookie               = errors.New("stun: bad magic cookie")
	ErrBadAttributeLength           = errors.New("stun: bad attribute length")
	ErrDuplicateAttribute           = errors.New("stun: attribute already exists")
	ErrUnknownComprehensionRequired = errors.New("stun: unknown comprehension-required attribute")
	ErrIntegrityMismatch            = errors.New("stun: message-integrity mismatch")
	ErrFingerprintMismatch          = errors.New("stun: fingerprint mismatch")
	ErrInvalidTransactionID         = errors.New("stun: invalid transaction id length")
	ErrContextViolation             = errors.New("stun: attribute not valid in this message context")
	ErrValueOutOfRange              = errors.New("stun: attribute value out of range")
	ErrAttributeNotFound            = errors.New("stun: attribute not found")
	ErrTypeNotSet                   = errors.New("stun: message type not set")
	ErrTimeout                      = errors.New("stun: transaction timed out")
	ErrCancelled                    = errors.New("stun: transaction cancelled")
	ErrNotSTUN                      = errors.New("stun: datagram does not look like a STUN message")
)
