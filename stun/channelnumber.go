package stun

const channelNumberValueLength = 4 // channel:16 | reserved:16=0

// addChannelNumber writes a CHANNEL-NUMBER attribute.
func (c *context) addChannelNumber(channel uint16) error {
	if err := c.reserve(AttrChannelNumber, channelNumberValueLength); err != nil {
		return err
	}
	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(AttrChannelNumber))
		c.rw.putUint16(buf[2:], channelNumberValueLength)
		c.rw.putUint16(buf[4:], channel)
		c.rw.putUint16(buf[6:], 0) // reserved
	}
	c.commit(AttrChannelNumber, channelNumberValueLength)
	return nil
}

// parseChannelNumber decodes attr's value as CHANNEL-NUMBER.
func parseChannelNumber(rw *endianFuncs, attr RawAttribute) (uint16, error) {
	if attr.Type != AttrChannelNumber || attr.Value == nil {
		return 0, ErrBadParam
	}
	if int(attr.Length) != channelNumberValueLength {
		return 0, &AttrLengthError{Attr: AttrChannelNumber, Got: int(attr.Length), Expected: channelNumberValueLength}
	}
	return rw.uint16(attr.Value), nil
}
