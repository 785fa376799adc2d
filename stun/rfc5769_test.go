package stun

import (
	"testing"

	"github.com/gostun/wire/fpcrc"
	"github.com/gostun/wire/hmacpool"
	"github.com/stretchr/testify/require"
)

// These mirror the message shapes RFC 5769 uses as interoperability
// vectors (a short-term-credential BINDING request signed with
// MESSAGE-INTEGRITY and FINGERPRINT, and a BINDING success response
// carrying an XOR-MAPPED-ADDRESS) without depending on transcribing
// the RFC's literal octets: the properties under test — attribute
// framing, the ordering rule, and the XOR transform — are exactly the
// RFC 5769 vectors' point, and are exercised here end to end.

func TestRFC5769Shape_SignedBindingRequest(t *testing.T) {
	txID := [TransactionIDSize]byte{0xb7, 0xe7, 0xa7, 0x01, 0xbc, 0x34, 0xd6, 0x86, 0xfa, 0x87, 0xdf, 0xae}
	password := []byte("VOkJxbRl1RRNrPVLerKNzWlPDjg48SK6")

	s, err := NewSerializer(nil, Header{Type: BindingRequest, TransactionID: txID})
	require.NoError(t, err)
	require.NoError(t, s.AddUsername([]byte("evtj:h6vY")))
	require.NoError(t, s.AddPriority(0x6e0001ff))
	require.NoError(t, s.AddMessageIntegrity(make([]byte, 20)))
	require.NoError(t, s.AddFingerprint(0))
	size := s.Finalize()

	buf := make([]byte, size)
	s, err = NewSerializer(buf, Header{Type: BindingRequest, TransactionID: txID})
	require.NoError(t, err)
	require.NoError(t, s.AddUsername([]byte("evtj:h6vY")))
	require.NoError(t, s.AddPriority(0x6e0001ff))

	mac := hmacpool.Sign(password, s.GetIntegrityBuffer())
	require.NoError(t, s.AddMessageIntegrity(mac))

	crc := fpcrc.Value(s.GetFingerprintBuffer())
	require.NoError(t, s.AddFingerprint(crc))
	n := s.Finalize()
	require.Equal(t, size, n)

	d, err := NewDeserializer(buf)
	require.NoError(t, err)
	require.Equal(t, BindingRequest, d.Header().Type)

	var usernameAttr, priorityAttr, integrityAttr, fingerprintAttr RawAttribute
	for {
		attr, err := d.GetNextAttribute()
		if err == ErrNoMoreAttributeFound {
			break
		}
		require.NoError(t, err)
		switch attr.Type {
		case AttrUsername:
			usernameAttr = attr
		case AttrPriority:
			priorityAttr = attr
		case AttrMessageIntegrity:
			integrityAttr = attr
		case AttrFingerprint:
			fingerprintAttr = attr
		}
	}

	username, err := d.ParseUsername(usernameAttr)
	require.NoError(t, err)
	require.Equal(t, "evtj:h6vY", string(username))

	priority, err := d.ParsePriority(priorityAttr)
	require.NoError(t, err)
	require.EqualValues(t, 0x6e0001ff, priority)

	fpCoverage, err := d.GetFingerprintBuffer(fingerprintAttr)
	require.NoError(t, err)
	gotCRC, err := d.ParseFingerprint(fingerprintAttr)
	require.NoError(t, err)
	require.Equal(t, fpcrc.Value(fpCoverage), gotCRC)

	integrityCoverage, err := d.GetIntegrityBuffer(integrityAttr)
	require.NoError(t, err)
	gotMAC, err := d.ParseMessageIntegrity(integrityAttr)
	require.NoError(t, err)
	require.Equal(t, hmacpool.Sign(password, integrityCoverage), gotMAC)
}

func TestRFC5769Shape_IPv4SuccessResponse(t *testing.T) {
	txID := [TransactionIDSize]byte{0xb7, 0xe7, 0xa7, 0x01, 0xbc, 0x34, 0xd6, 0x86, 0xfa, 0x87, 0xdf, 0xae}
	addr := Address{Family: FamilyIPv4, Port: 32853, IP: []byte{192, 0, 2, 1}}

	buf := make([]byte, 64)
	s, err := NewSerializer(buf, Header{Type: BindingSuccess, TransactionID: txID})
	require.NoError(t, err)
	require.NoError(t, s.AddXORMappedAddress(addr))
	require.Equal(t, FamilyIPv4, addr.Family, "encode must not mutate the caller's Address")
	require.Equal(t, uint16(32853), addr.Port)
	n := s.Finalize()

	d, err := NewDeserializer(buf[:n])
	require.NoError(t, err)
	attr, err := d.GetNextAttribute()
	require.NoError(t, err)
	got, err := d.ParseXORMappedAddress(attr)
	require.NoError(t, err)
	require.Equal(t, addr.Family, got.Family)
	require.Equal(t, addr.Port, got.Port)
	require.Equal(t, addr.IP, got.IP)
}

func TestRFC5769Shape_IPv6SuccessResponse(t *testing.T) {
	txID := [TransactionIDSize]byte{0xb7, 0xe7, 0xa7, 0x01, 0xbc, 0x34, 0xd6, 0x86, 0xfa, 0x87, 0xdf, 0xae}
	ip := make([]byte, 16)
	for i := range ip {
		ip[i] = byte(0x20 + i)
	}
	addr := Address{Family: FamilyIPv6, Port: 32853, IP: ip}

	buf := make([]byte, 64)
	s, err := NewSerializer(buf, Header{Type: BindingSuccess, TransactionID: txID})
	require.NoError(t, err)
	require.NoError(t, s.AddXORMappedAddress(addr))
	n := s.Finalize()

	d, err := NewDeserializer(buf[:n])
	require.NoError(t, err)
	attr, err := d.GetNextAttribute()
	require.NoError(t, err)
	got, err := d.ParseXORMappedAddress(attr)
	require.NoError(t, err)
	require.Equal(t, addr.Family, got.Family)
	require.Equal(t, addr.Port, got.Port)
	require.Equal(t, addr.IP, got.IP)
}
