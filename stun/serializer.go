package stun

// Serializer writes a well-formed STUN message into a caller-supplied
// buffer, or, in dry-run mode, only computes the length such a
// message would occupy. A Serializer is a single-writer object: it is
// not safe for concurrent use, but distinct Serializers over disjoint
// buffers are fully independent.
type Serializer struct {
	ctx context
}

// NewSerializer allocates and initializes a Serializer. See Init for
// the buffer/dry-run contract.
func NewSerializer(buf []byte, header Header) (*Serializer, error) {
	s := &Serializer{}
	if err := s.Init(buf, header); err != nil {
		return nil, err
	}
	return s, nil
}

// Init (re)initializes s to write header into buf.
//
// buf may be nil, which selects dry-run mode: Init and every
// subsequent Add* call still perform all checks that do not require
// an actual buffer, and idx still advances, but no bytes are written.
// This lets a caller pre-size a message before allocating it. A
// non-nil buf shorter than HeaderSize is rejected with ErrBadParam.
func (s *Serializer) Init(buf []byte, header Header) error {
	if buf != nil && len(buf) < HeaderSize {
		return ErrBadParam
	}
	s.ctx = context{
		buf:   buf,
		total: len(buf),
		rw:    defaultEndian(),
	}
	if buf != nil {
		writeHeader(buf, s.ctx.rw, &header)
	}
	s.ctx.idx = HeaderSize
	return nil
}

// Index returns the serializer's current write cursor, i.e. the
// number of bytes of the message produced so far (header included).
func (s *Serializer) Index() int { return s.ctx.idx }

// AddPriority adds a PRIORITY attribute.
func (s *Serializer) AddPriority(priority uint32) error {
	return s.ctx.addUint32(AttrPriority, priority)
}

// AddFingerprint adds a FINGERPRINT attribute carrying a
// caller-computed CRC-32 value (see the fpcrc package and
// GetFingerprintBuffer). Computing the checksum is outside this
// package's scope.
func (s *Serializer) AddFingerprint(crc32Value uint32) error {
	return s.ctx.addUint32(AttrFingerprint, crc32Value)
}

// AddLifetime adds a LIFETIME attribute.
func (s *Serializer) AddLifetime(seconds uint32) error {
	return s.ctx.addUint32(AttrLifetime, seconds)
}

// AddChangeRequest adds a CHANGE-REQUEST attribute.
func (s *Serializer) AddChangeRequest(flags uint32) error {
	return s.ctx.addUint32(AttrChangeRequest, flags)
}

// AddICEControlled adds an ICE-CONTROLLED attribute.
func (s *Serializer) AddICEControlled(tieBreaker uint64) error {
	return s.ctx.addUint64(AttrICEControlled, tieBreaker)
}

// AddICEControlling adds an ICE-CONTROLLING attribute.
func (s *Serializer) AddICEControlling(tieBreaker uint64) error {
	return s.ctx.addUint64(AttrICEControlling, tieBreaker)
}

// AddReservationToken adds a RESERVATION-TOKEN attribute (RFC 5766
// §14.9): an 8-byte opaque token the server previously handed out.
func (s *Serializer) AddReservationToken(token uint64) error {
	return s.ctx.addUint64(AttrReservationToken, token)
}

// AddUseCandidate adds a type-only USE-CANDIDATE attribute.
func (s *Serializer) AddUseCandidate() error {
	return s.ctx.addTypeOnly(AttrUseCandidate)
}

// AddDontFragment adds a type-only DONT-FRAGMENT attribute.
func (s *Serializer) AddDontFragment() error {
	return s.ctx.addTypeOnly(AttrDontFragment)
}

// AddUsername adds a USERNAME attribute.
func (s *Serializer) AddUsername(username []byte) error {
	return s.ctx.addBuffer(AttrUsername, username)
}

// AddPassword adds a PASSWORD attribute.
func (s *Serializer) AddPassword(password []byte) error {
	return s.ctx.addBuffer(AttrPassword, password)
}

// AddData adds a DATA attribute (RFC 5766 §14.4).
func (s *Serializer) AddData(data []byte) error {
	return s.ctx.addBuffer(AttrData, data)
}

// AddRealm adds a REALM attribute.
func (s *Serializer) AddRealm(realm []byte) error {
	return s.ctx.addBuffer(AttrRealm, realm)
}

// AddNonce adds a NONCE attribute.
func (s *Serializer) AddNonce(nonce []byte) error {
	return s.ctx.addBuffer(AttrNonce, nonce)
}

// AddRequestedTransport adds a REQUESTED-TRANSPORT attribute (RFC 5766
// §14.7): protocol number followed by 3 reserved zero bytes.
func (s *Serializer) AddRequestedTransport(protocol uint8) error {
	return s.ctx.addBuffer(AttrRequestedTransport, []byte{protocol, 0, 0, 0})
}

// AddEvenPort adds an EVEN-PORT attribute (RFC 5766 §14.6): a single
// byte whose top bit is the "reserve the next higher port" flag.
func (s *Serializer) AddEvenPort(reserveNext bool) error {
	var v byte
	if reserveNext {
		v = 1 << 7
	}
	return s.ctx.addBuffer(AttrEvenPort, []byte{v})
}

// AddUnknownAttributes adds an UNKNOWN-ATTRIBUTES attribute: a list of
// attribute type codes, as returned in a 420 error response.
func (s *Serializer) AddUnknownAttributes(types []AttrType) error {
	buf := make([]byte, 2*len(types))
	for i, t := range types {
		s.ctx.rw.putUint16(buf[2*i:], uint16(t))
	}
	return s.ctx.addBuffer(AttrUnknownAttributes, buf)
}

// AddMessageIntegrity adds a MESSAGE-INTEGRITY attribute carrying a
// caller-computed 20-byte HMAC-SHA1 value (see the hmacpool package
// and GetIntegrityBuffer). Computing the HMAC is outside this
// package's scope.
func (s *Serializer) AddMessageIntegrity(hmacSHA1 []byte) error {
	if len(hmacSHA1) != messageIntegrityValueLength {
		return ErrBadParam
	}
	return s.ctx.addBuffer(AttrMessageIntegrity, hmacSHA1)
}

// AddErrorCode adds an ERROR-CODE attribute.
func (s *Serializer) AddErrorCode(code ErrorCode, reason []byte) error {
	return s.ctx.addErrorCode(code, reason)
}

// AddChannelNumber adds a CHANNEL-NUMBER attribute.
func (s *Serializer) AddChannelNumber(channel uint16) error {
	return s.ctx.addChannelNumber(channel)
}

// AddMappedAddress adds a MAPPED-ADDRESS attribute.
func (s *Serializer) AddMappedAddress(addr Address) error {
	return s.ctx.addAddress(AttrMappedAddress, addr)
}

// AddResponseAddress adds a RESPONSE-ADDRESS attribute.
func (s *Serializer) AddResponseAddress(addr Address) error {
	return s.ctx.addAddress(AttrResponseAddress, addr)
}

// AddSourceAddress adds a SOURCE-ADDRESS attribute.
func (s *Serializer) AddSourceAddress(addr Address) error {
	return s.ctx.addAddress(AttrSourceAddress, addr)
}

// AddChangedAddress adds a CHANGED-ADDRESS attribute.
func (s *Serializer) AddChangedAddress(addr Address) error {
	return s.ctx.addAddress(AttrChangedAddress, addr)
}

// AddReflectedFrom adds a REFLECTED-FROM attribute.
func (s *Serializer) AddReflectedFrom(addr Address) error {
	return s.ctx.addAddress(AttrReflectedFrom, addr)
}

// AddXORMappedAddress adds an XOR-MAPPED-ADDRESS attribute. addr must
// carry the plaintext address; the obfuscated wire form is computed
// into a local copy and addr is left unmodified.
func (s *Serializer) AddXORMappedAddress(addr Address) error {
	return s.ctx.addAddress(AttrXORMappedAddress, addr)
}

// AddXORPeerAddress adds an XOR-PEER-ADDRESS attribute.
func (s *Serializer) AddXORPeerAddress(addr Address) error {
	return s.ctx.addAddress(AttrXORPeerAddress, addr)
}

// AddXORRelayedAddress adds an XOR-RELAYED-ADDRESS attribute.
func (s *Serializer) AddXORRelayedAddress(addr Address) error {
	return s.ctx.addAddress(AttrXORRelayedAddress, addr)
}

// Finalize patches the header's length field (when buffered) to the
// final message length and returns the total serialized length. Valid
// in dry-run mode, where it returns the length a real serialization
// would occupy without having written anything.
func (s *Serializer) Finalize() int {
	if !s.ctx.dryRun() {
		s.ctx.rw.putUint16(s.ctx.buf[headerLengthOffset:], uint16(s.ctx.idx-HeaderSize))
	}
	return s.ctx.idx
}

// GetIntegrityBuffer patches the header length to the length the
// message will have once a MESSAGE-INTEGRITY attribute is appended,
// and returns the byte range [0:idx) an external HMAC routine must
// sign. idx is left unchanged; the caller must still append the
// actual MESSAGE-INTEGRITY attribute afterward (see AddMessageIntegrity).
func (s *Serializer) GetIntegrityBuffer() []byte {
	return s.getCoverageBuffer(AttributeHeaderSize + messageIntegrityValueLength)
}

// GetFingerprintBuffer is GetIntegrityBuffer's FINGERPRINT analogue.
func (s *Serializer) GetFingerprintBuffer() []byte {
	return s.getCoverageBuffer(AttributeHeaderSize + fingerprintValueLength)
}

func (s *Serializer) getCoverageBuffer(appendedLength int) []byte {
	if s.ctx.dryRun() {
		return nil
	}
	s.ctx.rw.putUint16(s.ctx.buf[headerLengthOffset:], uint16(s.ctx.idx-HeaderSize+appendedLength))
	return s.ctx.buf[:s.ctx.idx]
}

const (
	messageIntegrityValueLength = 20
	fingerprintValueLength      = 4
)
