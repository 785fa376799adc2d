package stun

// RawAttribute is a decoded, not-yet-typed STUN attribute: the pair of
// {type, length} plus a value that is a borrowed view into the
// context's input buffer. The borrowed range spans exactly Length
// bytes; the on-wire occupation (including padding) is
// AttributeHeaderSize + align4(Length).
type RawAttribute struct {
	Type   AttrType
	Length uint16
	Value  []byte // nil when Length == 0
}

// addTypeOnly writes a zero-length attribute, e.g. USE-CANDIDATE.
func (c *context) addTypeOnly(t AttrType) error {
	return c.addBytes(t, nil)
}

// addUint32 writes a fixed 4-byte value attribute, e.g. PRIORITY.
func (c *context) addUint32(t AttrType, v uint32) error {
	const n = 4
	if err := c.reserve(t, n); err != nil {
		return err
	}
	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(t))
		c.rw.putUint16(buf[2:], n)
		c.rw.putUint32(buf[4:], v)
	}
	c.commit(t, n)
	return nil
}

// addUint64 writes a fixed 8-byte value attribute, e.g. ICE-CONTROLLED.
func (c *context) addUint64(t AttrType, v uint64) error {
	const n = 8
	if err := c.reserve(t, n); err != nil {
		return err
	}
	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(t))
		c.rw.putUint16(buf[2:], n)
		c.rw.putUint64(buf[4:], v)
	}
	c.commit(t, n)
	return nil
}

// addBytes writes a variable-length buffer attribute, e.g. USERNAME.
// v may be empty only for type-only attributes called via addTypeOnly;
// direct callers (addBuffer) reject an empty/nil v with ErrBadParam.
func (c *context) addBytes(t AttrType, v []byte) error {
	n := len(v)
	if err := c.reserve(t, n); err != nil {
		return err
	}
	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(t))
		c.rw.putUint16(buf[2:], uint16(n))
		copy(buf[4:], v)
		padded := align4(n)
		for i := n; i < padded; i++ {
			buf[4+i] = 0
		}
	}
	c.commit(t, n)
	return nil
}

// addBuffer is addBytes with the extra check required for the
// byte-buffer shape: nil/empty values are rejected outright rather
// than silently producing a zero-length attribute.
func (c *context) addBuffer(t AttrType, v []byte) error {
	if len(v) == 0 {
		return ErrBadParam
	}
	return c.addBytes(t, v)
}

// reserve runs the ordering check and, in buffered mode, the capacity
// check, for an attribute whose unpadded value length is n. It never
// mutates c.
func (c *context) reserve(t AttrType, n int) error {
	if !c.dryRun() {
		if c.remaining() < AttributeHeaderSize+align4(n) {
			return ErrOutOfMemory
		}
	}
	return c.checkOrder(t)
}

// commit advances idx and the ordering flags for an attribute whose
// unpadded value length is n. Only ever called after a successful
// reserve for the same (t, n).
func (c *context) commit(t AttrType, n int) {
	c.idx += AttributeHeaderSize + align4(n)
	c.markOrder(t)
}

// getNext decodes the next attribute header (and borrows its value) at
// the current cursor, without consuming a trailing ordering violation
// silently: the type is read first so checkOrder can run before the
// length is trusted.
func (c *context) getNext() (RawAttribute, error) {
	if c.remaining() < AttributeHeaderSize {
		return RawAttribute{}, ErrNoMoreAttributeFound
	}
	t := AttrType(c.rw.uint16(c.buf[c.idx:]))
	if err := c.checkOrder(t); err != nil {
		return RawAttribute{}, err
	}
	length := c.rw.uint16(c.buf[c.idx+2:])
	if c.remaining() < AttributeHeaderSize+int(length) {
		return RawAttribute{}, ErrOutOfMemory
	}
	var value []byte
	if length > 0 {
		value = c.buf[c.idx+AttributeHeaderSize : c.idx+AttributeHeaderSize+int(length)]
	}
	c.idx += AttributeHeaderSize + align4(int(length))
	c.markOrder(t)
	return RawAttribute{Type: t, Length: length, Value: value}, nil
}
