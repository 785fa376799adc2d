package stun

import (
	"github.com/pion/transport/v4/utils/xor"
)

// AddressFamily is the 8-bit family discriminator inside an ADDRESS
// attribute value, preceded on the wire by a single zero pad byte.
type AddressFamily uint8

// Address families recognized by this package.
const (
	FamilyIPv4 AddressFamily = 0x01
	FamilyIPv6 AddressFamily = 0x02
)

const (
	ipv4Size = 4
	ipv6Size = 16

	addressPadOffset    = 0
	addressFamilyOffset = 1
	addressPortOffset   = 2
	addressValueOffset  = 4
)

// Address is a decoded or caller-supplied MAPPED/PEER/RELAYED address
// attribute value. IP holds either 4 (IPv4) or 16 (IPv6) significant
// bytes, selected by Family; for XOR variants the value always holds
// the plaintext (de-obfuscated) form, never the wire form.
type Address struct {
	Family AddressFamily
	Port   uint16
	IP     []byte
}

func (a Address) addressLength() (int, error) {
	switch a.Family {
	case FamilyIPv4:
		return ipv4Size, nil
	case FamilyIPv6:
		return ipv6Size, nil
	default:
		return 0, ErrBadParam
	}
}

func isXORAttr(t AttrType) bool {
	switch t {
	case AttrXORMappedAddress, AttrXORPeerAddress, AttrXORRelayedAddress:
		return true
	default:
		return false
	}
}

// xorAddress returns the XOR-obfuscated transform of addr without
// mutating it: port XORed with the magic cookie's high 16 bits, the
// first 4 address bytes XORed with the magic cookie, and for IPv6 the
// remaining 12 bytes XORed with the header's transaction ID.
//
// Some XorAddress implementations mutate the caller's struct in place
// before writing; this package treats that as a latent bug rather than
// intended behavior and does not reproduce it. Encode and decode both
// work on a local copy, leaving the caller's Address untouched.
func xorAddress(rw *endianFuncs, transactionID []byte, addr Address) Address {
	out := Address{Family: addr.Family, Port: addr.Port ^ uint16(magicCookie>>16)}
	out.IP = make([]byte, len(addr.IP))

	var head [4]byte
	rw.putUint32(head[:], rw.uint32(addr.IP)^magicCookie)
	copy(out.IP[:4], head[:])

	if addr.Family == FamilyIPv6 && len(addr.IP) >= ipv6Size {
		xor.XorBytes(out.IP[4:ipv6Size], addr.IP[4:ipv6Size], transactionID[:TransactionIDSize])
	}
	return out
}

// addAddress writes a plain or XOR-obfuscated address attribute.
func (c *context) addAddress(t AttrType, addr Address) error {
	addrLen, err := addr.addressLength()
	if err != nil {
		return err
	}
	if len(addr.IP) < addrLen {
		return ErrBadParam
	}
	n := addressValueOffset + addrLen

	if err := c.reserve(t, n); err != nil {
		return err
	}

	wire := addr
	if isXORAttr(t) && !c.dryRun() {
		wire = xorAddress(c.rw, c.buf[headerTransactionIDOffset:HeaderSize], addr)
	}

	if !c.dryRun() {
		buf := c.buf[c.idx:]
		c.rw.putUint16(buf, uint16(t))
		c.rw.putUint16(buf[2:], uint16(n))
		buf[4] = 0 // reserved pad byte
		buf[5] = byte(wire.Family)
		c.rw.putUint16(buf[6:], wire.Port)
		copy(buf[AttributeHeaderSize+addressValueOffset:], wire.IP[:addrLen])
	}
	c.commit(t, n)
	return nil
}

// parseAddress decodes attr's value as a plain or XOR-obfuscated
// address attribute.
func parseAddress(rw *endianFuncs, transactionID []byte, attr RawAttribute) (Address, error) {
	if attr.Value == nil || len(attr.Value) < addressValueOffset {
		return Address{}, ErrBadParam
	}
	if attr.Value[addressPadOffset] != 0 {
		// The leading byte before Family must be the zero pad; a
		// non-zero value here means the attribute is malformed rather
		// than merely a family we don't recognize.
		return Address{}, ErrMalformedAddress
	}
	family := AddressFamily(attr.Value[addressFamilyOffset])
	addrLen, err := (Address{Family: family}).addressLength()
	if err != nil {
		return Address{}, err
	}
	if len(attr.Value) != addressValueOffset+addrLen {
		return Address{}, &AttrLengthError{Attr: attr.Type, Got: len(attr.Value), Expected: addressValueOffset + addrLen}
	}

	addr := Address{
		Family: family,
		Port:   rw.uint16(attr.Value[addressPortOffset:]),
		IP:     append([]byte(nil), attr.Value[addressValueOffset:]...),
	}

	if isXORAttr(attr.Type) {
		addr = xorAddress(rw, transactionID, addr)
	}
	return addr, nil
}
