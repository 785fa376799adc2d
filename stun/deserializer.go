package stun

// Deserializer parses a STUN message out of a caller-supplied buffer
// into a header plus a stream of typed attributes. Raw attribute values
// and the buffer-shaped parse results are borrowed views into buf,
// valid only as long as buf is. The header's TransactionID and decoded
// addresses are copied out of buf.
type Deserializer struct {
	ctx    context
	header Header
}

// NewDeserializer allocates and initializes a Deserializer. See Init
// for the validation performed.
func NewDeserializer(buf []byte) (*Deserializer, error) {
	d := &Deserializer{}
	if err := d.Init(buf); err != nil {
		return nil, err
	}
	return d, nil
}

// Init (re)initializes d to read buf: the header is parsed and
// validated (magic cookie, declared length against the actual buffer
// length) before any attribute can be read.
func (d *Deserializer) Init(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrBadParam
	}
	rw := defaultEndian()

	cookie := rw.uint32(buf[headerMagicCookieOffset:])
	if cookie != magicCookie {
		return ErrMagicCookieMismatch
	}

	declared := rw.uint16(buf[headerLengthOffset:])
	if int(declared) != len(buf)-HeaderSize {
		return ErrInvalidMessageLength
	}

	var h Header
	h.Type.ReadValue(rw.uint16(buf[headerTypeOffset:]))
	copy(h.TransactionID[:], buf[headerTransactionIDOffset:HeaderSize])

	d.header = h
	d.ctx = context{
		buf:   buf,
		total: len(buf),
		idx:   HeaderSize,
		rw:    rw,
	}
	return nil
}

// Header returns the message's decoded header.
func (d *Deserializer) Header() Header { return d.header }

// Index returns the deserializer's current read cursor.
func (d *Deserializer) Index() int { return d.ctx.idx }

// transactionID returns the borrowed 12-byte transaction ID, used to
// de-obfuscate XOR address attributes.
func (d *Deserializer) transactionID() []byte {
	return d.ctx.buf[headerTransactionIDOffset:HeaderSize]
}

// GetNextAttribute returns the next attribute header, with Value
// borrowing the backing buffer. Once iteration reaches the end of the
// message it returns ErrNoMoreAttributeFound, the normal stream-end
// signal rather than a failure.
func (d *Deserializer) GetNextAttribute() (RawAttribute, error) {
	return d.ctx.getNext()
}

// ParsePriority decodes attr as PRIORITY.
func (d *Deserializer) ParsePriority(attr RawAttribute) (uint32, error) {
	return parseUint32(d.ctx.rw, AttrPriority, attr)
}

// ParseLifetime decodes attr as LIFETIME.
func (d *Deserializer) ParseLifetime(attr RawAttribute) (uint32, error) {
	return parseUint32(d.ctx.rw, AttrLifetime, attr)
}

// ParseChangeRequest decodes attr as CHANGE-REQUEST.
func (d *Deserializer) ParseChangeRequest(attr RawAttribute) (uint32, error) {
	return parseUint32(d.ctx.rw, AttrChangeRequest, attr)
}

// ParseFingerprint decodes attr as FINGERPRINT. Checking the CRC-32
// value against the message is outside this package's scope.
func (d *Deserializer) ParseFingerprint(attr RawAttribute) (uint32, error) {
	return parseUint32(d.ctx.rw, AttrFingerprint, attr)
}

// ParseICEControlled decodes attr as ICE-CONTROLLED.
func (d *Deserializer) ParseICEControlled(attr RawAttribute) (uint64, error) {
	return parseUint64(d.ctx.rw, AttrICEControlled, attr)
}

// ParseICEControlling decodes attr as ICE-CONTROLLING.
func (d *Deserializer) ParseICEControlling(attr RawAttribute) (uint64, error) {
	return parseUint64(d.ctx.rw, AttrICEControlling, attr)
}

// ParseReservationToken decodes attr as RESERVATION-TOKEN.
func (d *Deserializer) ParseReservationToken(attr RawAttribute) (uint64, error) {
	return parseUint64(d.ctx.rw, AttrReservationToken, attr)
}

// ParseUsername returns attr's borrowed value as USERNAME.
func (d *Deserializer) ParseUsername(attr RawAttribute) ([]byte, error) {
	return parseBuffer(AttrUsername, attr)
}

// ParsePassword returns attr's borrowed value as PASSWORD.
func (d *Deserializer) ParsePassword(attr RawAttribute) ([]byte, error) {
	return parseBuffer(AttrPassword, attr)
}

// ParseData returns attr's borrowed value as DATA.
func (d *Deserializer) ParseData(attr RawAttribute) ([]byte, error) {
	return parseBuffer(AttrData, attr)
}

// ParseRealm returns attr's borrowed value as REALM.
func (d *Deserializer) ParseRealm(attr RawAttribute) ([]byte, error) {
	return parseBuffer(AttrRealm, attr)
}

// ParseNonce returns attr's borrowed value as NONCE.
func (d *Deserializer) ParseNonce(attr RawAttribute) ([]byte, error) {
	return parseBuffer(AttrNonce, attr)
}

// ParseMessageIntegrity returns attr's borrowed 20-byte HMAC-SHA1
// value. Verifying it against the message is outside this package's
// scope (see the hmacpool package and GetIntegrityBuffer).
func (d *Deserializer) ParseMessageIntegrity(attr RawAttribute) ([]byte, error) {
	if attr.Type != AttrMessageIntegrity {
		return nil, ErrBadParam
	}
	if len(attr.Value) != messageIntegrityValueLength {
		return nil, &AttrLengthError{Attr: AttrMessageIntegrity, Got: len(attr.Value), Expected: messageIntegrityValueLength}
	}
	return attr.Value, nil
}

// ParseRequestedTransport decodes attr as REQUESTED-TRANSPORT,
// returning the protocol number.
func (d *Deserializer) ParseRequestedTransport(attr RawAttribute) (uint8, error) {
	if attr.Type != AttrRequestedTransport {
		return 0, ErrBadParam
	}
	if len(attr.Value) != 4 {
		return 0, &AttrLengthError{Attr: AttrRequestedTransport, Got: len(attr.Value), Expected: 4}
	}
	return attr.Value[0], nil
}

// ParseEvenPort decodes attr as EVEN-PORT, returning the
// reserve-next-higher-port flag.
func (d *Deserializer) ParseEvenPort(attr RawAttribute) (bool, error) {
	if attr.Type != AttrEvenPort {
		return false, ErrBadParam
	}
	if len(attr.Value) != 1 {
		return false, &AttrLengthError{Attr: AttrEvenPort, Got: len(attr.Value), Expected: 1}
	}
	return attr.Value[0]&(1<<7) != 0, nil
}

// ParseUnknownAttributes decodes attr as UNKNOWN-ATTRIBUTES.
func (d *Deserializer) ParseUnknownAttributes(attr RawAttribute) ([]AttrType, error) {
	if attr.Type != AttrUnknownAttributes || len(attr.Value)%2 != 0 {
		return nil, ErrBadParam
	}
	out := make([]AttrType, len(attr.Value)/2)
	for i := range out {
		out[i] = AttrType(d.ctx.rw.uint16(attr.Value[2*i:]))
	}
	return out, nil
}

// ParseErrorCode decodes attr as ERROR-CODE.
func (d *Deserializer) ParseErrorCode(attr RawAttribute) (ParsedErrorCode, error) {
	return parseErrorCode(attr)
}

// ParseChannelNumber decodes attr as CHANNEL-NUMBER.
func (d *Deserializer) ParseChannelNumber(attr RawAttribute) (uint16, error) {
	return parseChannelNumber(d.ctx.rw, attr)
}

// ParseMappedAddress decodes attr as MAPPED-ADDRESS.
func (d *Deserializer) ParseMappedAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrMappedAddress, attr)
}

// ParseResponseAddress decodes attr as RESPONSE-ADDRESS.
func (d *Deserializer) ParseResponseAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrResponseAddress, attr)
}

// ParseSourceAddress decodes attr as SOURCE-ADDRESS.
func (d *Deserializer) ParseSourceAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrSourceAddress, attr)
}

// ParseChangedAddress decodes attr as CHANGED-ADDRESS.
func (d *Deserializer) ParseChangedAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrChangedAddress, attr)
}

// ParseReflectedFrom decodes attr as REFLECTED-FROM.
func (d *Deserializer) ParseReflectedFrom(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrReflectedFrom, attr)
}

// ParseXORMappedAddress decodes attr as XOR-MAPPED-ADDRESS, returning
// the de-obfuscated plaintext address.
func (d *Deserializer) ParseXORMappedAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrXORMappedAddress, attr)
}

// ParseXORPeerAddress decodes attr as XOR-PEER-ADDRESS.
func (d *Deserializer) ParseXORPeerAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrXORPeerAddress, attr)
}

// ParseXORRelayedAddress decodes attr as XOR-RELAYED-ADDRESS.
func (d *Deserializer) ParseXORRelayedAddress(attr RawAttribute) (Address, error) {
	return d.parseAddr(AttrXORRelayedAddress, attr)
}

// GetIntegrityBuffer returns the byte range an external HMAC routine
// must verify attr (a previously decoded MESSAGE-INTEGRITY attribute)
// against: the message up to but excluding attr, with the header
// length field patched to what it was at signing time (the message
// through attr, excluding any FINGERPRINT that legally follows
// MESSAGE-INTEGRITY). The returned slice is a fresh copy, never a view
// into the input buffer, since the patched length byte must not be
// written into the caller's live message.
func (d *Deserializer) GetIntegrityBuffer(attr RawAttribute) ([]byte, error) {
	return d.getCoverageBuffer(attr)
}

// GetFingerprintBuffer is GetIntegrityBuffer's FINGERPRINT analogue.
func (d *Deserializer) GetFingerprintBuffer(attr RawAttribute) ([]byte, error) {
	return d.getCoverageBuffer(attr)
}

func (d *Deserializer) getCoverageBuffer(attr RawAttribute) ([]byte, error) {
	end, err := attrValueEndOffset(d.ctx.buf, d.ctx.rw, attr)
	if err != nil {
		return nil, err
	}
	start := end - AttributeHeaderSize - len(attr.Value)
	covered := make([]byte, start)
	copy(covered, d.ctx.buf[:start])
	withAttr := start + AttributeHeaderSize + align4(len(attr.Value))
	d.ctx.rw.putUint16(covered[headerLengthOffset:], uint16(withAttr-HeaderSize))
	return covered, nil
}

// attrValueEndOffset re-scans buf's attribute stream to find the
// byte offset immediately following attr's value, identifying attr by
// its (type, value) identity rather than trusting a caller-supplied
// offset that could point anywhere.
func attrValueEndOffset(buf []byte, rw *endianFuncs, attr RawAttribute) (int, error) {
	idx := HeaderSize
	for idx+AttributeHeaderSize <= len(buf) {
		t := AttrType(rw.uint16(buf[idx:]))
		length := int(rw.uint16(buf[idx+2:]))
		valStart := idx + AttributeHeaderSize
		valEnd := valStart + length
		if valEnd > len(buf) {
			break
		}
		if t == attr.Type && length == len(attr.Value) &&
			(length == 0 || &buf[valStart] == &attr.Value[0]) {
			return valEnd, nil
		}
		idx = valStart + align4(length)
	}
	return 0, ErrNoAttributeFound
}

func (d *Deserializer) parseAddr(want AttrType, attr RawAttribute) (Address, error) {
	if attr.Type != want {
		return Address{}, ErrBadParam
	}
	return parseAddress(d.ctx.rw, d.transactionID(), attr)
}

func parseUint32(rw *endianFuncs, want AttrType, attr RawAttribute) (uint32, error) {
	if attr.Type != want {
		return 0, ErrBadParam
	}
	if len(attr.Value) != 4 {
		return 0, &AttrLengthError{Attr: want, Got: len(attr.Value), Expected: 4}
	}
	return rw.uint32(attr.Value), nil
}

func parseUint64(rw *endianFuncs, want AttrType, attr RawAttribute) (uint64, error) {
	if attr.Type != want {
		return 0, ErrBadParam
	}
	if len(attr.Value) != 8 {
		return 0, &AttrLengthError{Attr: want, Got: len(attr.Value), Expected: 8}
	}
	return rw.uint64(attr.Value), nil
}

func parseBuffer(want AttrType, attr RawAttribute) ([]byte, error) {
	if attr.Type != want || len(attr.Value) == 0 {
		return nil, ErrBadParam
	}
	return attr.Value, nil
}
