package stun

// attrFlags tracks which order-significant attributes have been
// seen/emitted so far. Bits only ever get set, never cleared, for the
// lifetime of a context.
type attrFlags uint8

const (
	flagIntegritySeen attrFlags = 1 << iota
	flagFingerprintSeen
)

// context is the cursor shared by Serializer and Deserializer: a
// borrowed byte range, a monotonically non-decreasing index into it,
// the attribute-ordering flags, and the endian vtable. It owns
// nothing and is never copied out of this package.
//
// buf == nil with total == 0 is dry-run mode: every operation that
// would otherwise write bytes instead only advances idx, so a caller
// can compute the exact length a real serialization would produce
// without backing it with a buffer.
type context struct {
	buf   []byte
	total int
	idx   int
	flags attrFlags
	rw    *endianFuncs
}

func (c *context) remaining() int {
	return c.total - c.idx
}

// checkOrder runs the FINGERPRINT/MESSAGE-INTEGRITY terminality rule
// against a candidate attribute type, without mutating flags. Call
// before any bytes are written/consumed for the candidate attribute,
// so a rejected operation never leaves the context partially advanced.
func (c *context) checkOrder(t AttrType) error {
	if c.flags&flagFingerprintSeen != 0 {
		// FINGERPRINT must be the last attribute.
		return ErrInvalidAttributeOrder
	}
	if c.flags&flagIntegritySeen != 0 && t != AttrFingerprint {
		// Only FINGERPRINT may follow MESSAGE-INTEGRITY.
		return ErrInvalidAttributeOrder
	}
	return nil
}

// markOrder updates the ordering flags for an attribute type that has
// already passed checkOrder and whose bytes have already been
// written/consumed.
func (c *context) markOrder(t AttrType) {
	switch t {
	case AttrFingerprint:
		c.flags |= flagFingerprintSeen
	case AttrMessageIntegrity:
		c.flags |= flagIntegritySeen
	}
}

// dryRun reports whether this context has no backing buffer.
func (c *context) dryRun() bool {
	return c.buf == nil
}
