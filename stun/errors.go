package stun

import "fmt"

// Error is the type of all constant errors returned by this package.
//
// See http://dave.cheney.net/2016/04/07/constant-errors for the rationale:
// these compare with ==, can be declared const, and carry no allocation.
type Error string

func (e Error) Error() string { return string(e) }

// Error kinds surfaced by the serializer and deserializer.
const (
	// ErrBadParam means a caller contract was violated: a required
	// argument was nil/empty, an attribute type didn't match the typed
	// parser, a buffer was too small to even hold a header, or an
	// address family was neither IPv4 nor IPv6.
	ErrBadParam Error = "bad parameter"

	// ErrOutOfMemory means there was not enough room left in the
	// serialization buffer, or a declared attribute value length
	// exceeds the remaining bytes available during deserialization.
	ErrOutOfMemory Error = "out of memory"

	// ErrMagicCookieMismatch means the header's magic cookie field did
	// not equal 0x2112A442.
	ErrMagicCookieMismatch Error = "magic cookie mismatch"

	// ErrInvalidMessageLength means the header's declared length plus
	// the header size did not equal the buffer length.
	ErrInvalidMessageLength Error = "invalid message length"

	// ErrInvalidAttributeOrder means an attribute violated the
	// FINGERPRINT/MESSAGE-INTEGRITY terminality rule.
	ErrInvalidAttributeOrder Error = "invalid attribute order"

	// ErrNoMoreAttributeFound means attribute iteration reached the end
	// of the message. This is the normal stream-end signal, not a
	// failure.
	ErrNoMoreAttributeFound Error = "no more attribute found"

	// ErrNoAttributeFound means FindAttribute completed a full scan
	// without a matching attribute type.
	ErrNoAttributeFound Error = "no attribute found"

	// ErrMalformedAddress means an ADDRESS attribute's reserved pad
	// byte was non-zero on strict decode.
	ErrMalformedAddress Error = "malformed address attribute"
)

// AttrLengthError is returned by typed attribute parsers when the
// attribute's value length does not match what the shape requires.
type AttrLengthError struct {
	Attr     AttrType
	Got      int
	Expected int
}

func (e *AttrLengthError) Error() string {
	return fmt.Sprintf("stun: %s: invalid attribute length %d (expected %d)", e.Attr, e.Got, e.Expected)
}

// Is reports whether target is the sentinel ErrInvalidAttributeLength
// kind, so callers can use errors.Is without depending on the
// concrete *AttrLengthError shape.
func (e *AttrLengthError) Is(target error) bool {
	return target == ErrInvalidAttributeLength
}

// ErrInvalidAttributeLength is the sentinel matched by AttrLengthError
// via errors.Is; the concrete error carries the offending lengths.
const ErrInvalidAttributeLength Error = "invalid attribute length"
