package stun

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_DryRunSizingLawMatchesBuffered(t *testing.T) {
	build := func(buf []byte) (*Serializer, error) {
		s, err := NewSerializer(buf, Header{Type: BindingRequest})
		if err != nil {
			return nil, err
		}
		if err := s.AddUsername([]byte("alice")); err != nil {
			return nil, err
		}
		if err := s.AddPriority(7); err != nil {
			return nil, err
		}
		if err := s.AddXORPeerAddress(Address{Family: FamilyIPv6, Port: 1, IP: make([]byte, 16)}); err != nil {
			return nil, err
		}
		return s, nil
	}

	dry, err := build(nil)
	require.NoError(t, err)
	dryLen := dry.Finalize()

	buf := make([]byte, dryLen)
	buffered, err := build(buf)
	require.NoError(t, err)
	bufferedLen := buffered.Finalize()

	require.Equal(t, dryLen, bufferedLen)
}

func TestContext_OutOfMemory(t *testing.T) {
	buf := make([]byte, HeaderSize+4) // room for the header and one empty attribute, not a 5-byte value
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)

	idxBefore := s.Index()
	err = s.AddUsername([]byte("alice"))
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, idxBefore, s.Index())
}

func TestContext_EmptyBufferAttributeRejected(t *testing.T) {
	s, err := NewSerializer(nil, Header{Type: BindingRequest})
	require.NoError(t, err)
	require.ErrorIs(t, s.AddUsername(nil), ErrBadParam)
	require.ErrorIs(t, s.AddUsername([]byte{}), ErrBadParam)
}

func TestContext_PaddingLaw(t *testing.T) {
	buf := make([]byte, 64)
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)

	before := s.Index()
	require.NoError(t, s.AddUsername([]byte("abc"))) // length 3, pads to 4
	after := s.Index()
	require.Zero(t, (after-before)%4)
	require.Equal(t, AttributeHeaderSize+4, after-before)
}

func TestContext_MessageIntegrityThenFingerprintIsLegal(t *testing.T) {
	buf := make([]byte, 64)
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)
	require.NoError(t, s.AddMessageIntegrity(make([]byte, 20)))
	require.NoError(t, s.AddFingerprint(0))
}

func TestContext_AttributeAfterMessageIntegrityRejected(t *testing.T) {
	buf := make([]byte, 64)
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)
	require.NoError(t, s.AddMessageIntegrity(make([]byte, 20)))

	err = s.AddUsername([]byte("alice"))
	require.ErrorIs(t, err, ErrInvalidAttributeOrder)
}

func TestDeserializer_GetNextAttributeEndsWithErrNoMoreAttributeFound(t *testing.T) {
	buf := make([]byte, HeaderSize)
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)
	s.Finalize()

	d, err := NewDeserializer(buf)
	require.NoError(t, err)
	_, err = d.GetNextAttribute()
	require.ErrorIs(t, err, ErrNoMoreAttributeFound)
}

func TestDeserializer_ParsersRejectWrongTypeBeforeLength(t *testing.T) {
	d := &Deserializer{ctx: context{rw: bigEndian}}

	t.Run("ParsePriority", func(t *testing.T) {
		_, err := d.ParsePriority(RawAttribute{Type: AttrUsername, Value: make([]byte, 3)})
		require.ErrorIs(t, err, ErrBadParam)
	})
	t.Run("ParseICEControlled", func(t *testing.T) {
		_, err := d.ParseICEControlled(RawAttribute{Type: AttrUsername, Value: make([]byte, 7)})
		require.ErrorIs(t, err, ErrBadParam)
	})
	t.Run("ParseMessageIntegrity", func(t *testing.T) {
		_, err := d.ParseMessageIntegrity(RawAttribute{Type: AttrFingerprint, Value: make([]byte, fingerprintValueLength)})
		require.ErrorIs(t, err, ErrBadParam)
	})
	t.Run("ParseRequestedTransport", func(t *testing.T) {
		_, err := d.ParseRequestedTransport(RawAttribute{Type: AttrEvenPort, Value: make([]byte, 1)})
		require.ErrorIs(t, err, ErrBadParam)
	})
	t.Run("ParseEvenPort", func(t *testing.T) {
		_, err := d.ParseEvenPort(RawAttribute{Type: AttrRequestedTransport, Value: make([]byte, 4)})
		require.ErrorIs(t, err, ErrBadParam)
	})
}

func TestDeserializer_ParsersReportLengthErrorOnlyForMatchingType(t *testing.T) {
	d := &Deserializer{ctx: context{rw: bigEndian}}

	_, err := d.ParsePriority(RawAttribute{Type: AttrPriority, Value: make([]byte, 3)})
	var lenErr *AttrLengthError
	require.ErrorAs(t, err, &lenErr)
	require.ErrorIs(t, err, ErrInvalidAttributeLength)
}

func TestDeserializer_OrderViolationDetectedBeforeTrustingLength(t *testing.T) {
	// Hand-craft a stream the Serializer itself would never produce:
	// FINGERPRINT (8 bytes on the wire) followed by a PRIORITY whose
	// declared length (0xFFFF) would run far past the buffer. Decode
	// must reject on the ordering violation before it ever looks at
	// that bogus length.
	buf := make([]byte, HeaderSize+8+8)
	s, err := NewSerializer(buf, Header{Type: BindingRequest})
	require.NoError(t, err)
	require.NoError(t, s.AddFingerprint(0))

	tail := buf[s.Index():]
	bigEndian.putUint16(tail, uint16(AttrPriority))
	bigEndian.putUint16(tail[2:], 0xFFFF)
	bigEndian.putUint16(buf[headerLengthOffset:], uint16(len(buf)-HeaderSize))

	d, err := NewDeserializer(buf)
	require.NoError(t, err)
	_, err = d.GetNextAttribute() // FINGERPRINT itself
	require.NoError(t, err)
	_, err = d.GetNextAttribute()
	require.ErrorIs(t, err, ErrInvalidAttributeOrder)
}
