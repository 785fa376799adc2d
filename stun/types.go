// Package stun implements the wire-format core of STUN (Session
// Traversal Utilities for NAT, RFC 5389) as used by ICE/TURN agents: a
// serializer that writes a well-formed STUN message into a
// caller-supplied buffer, and a deserializer that parses a byte range
// into a stream of typed attributes. Both share one message layout,
// one attribute grammar, and one set of ordering/framing invariants.
//
// HMAC-SHA1 for MESSAGE-INTEGRITY and CRC-32 for FINGERPRINT are
// external collaborators (see the sibling hmacpool and fpcrc
// packages); this package only tells a caller what byte range to hash
// or checksum.
package stun

import (
	"fmt"
	"strconv"
)

const (
	// magicCookie is the fixed value every STUN header carries at
	// bytes [4:8), used to distinguish STUN from other protocols
	// multiplexed on the same port and as XOR key material for
	// obfuscated address attributes.
	magicCookie uint32 = 0x2112A442

	// HeaderSize is the fixed size of a STUN message header.
	HeaderSize = 20

	// AttributeHeaderSize is the size of an attribute's type+length
	// prefix, before the (possibly zero-length) value.
	AttributeHeaderSize = 4

	// TransactionIDSize is the size of the header's transaction ID
	// field, in bytes (96 bits).
	TransactionIDSize = 12
)

// MessageClass is the 2-bit class portion of a STUN message type.
type MessageClass byte

// Possible STUN message classes.
const (
	ClassRequest         MessageClass = 0x00
	ClassIndication      MessageClass = 0x01
	ClassSuccessResponse MessageClass = 0x02
	ClassErrorResponse   MessageClass = 0x03
)

func (c MessageClass) String() string {
	switch c {
	case ClassRequest:
		return "request"
	case ClassIndication:
		return "indication"
	case ClassSuccessResponse:
		return "success response"
	case ClassErrorResponse:
		return "error response"
	default:
		return fmt.Sprintf("class(0x%x)", byte(c))
	}
}

// Method is the 12-bit method portion of a STUN message type.
type Method uint16

// Methods recognized by this package.
const (
	MethodBinding          Method = 0x001
	MethodAllocate         Method = 0x003
	MethodRefresh          Method = 0x004
	MethodSend             Method = 0x006
	MethodData             Method = 0x007
	MethodCreatePermission Method = 0x008
	MethodChannelBind      Method = 0x009
)

func (m Method) String() string {
	switch m {
	case MethodBinding:
		return "binding"
	case MethodAllocate:
		return "allocate"
	case MethodRefresh:
		return "refresh"
	case MethodSend:
		return "send"
	case MethodData:
		return "data"
	case MethodCreatePermission:
		return "create permission"
	case MethodChannelBind:
		return "channel bind"
	default:
		return "0x" + strconv.FormatUint(uint64(m), 16)
	}
}

// Bit layout of the 16-bit STUN Message Type field (RFC 5389 figure 3):
//
//	 0                 1
//	 2  3  4 5 6 7 8 9 0 1 2 3 4 5
//	+--+--+-+-+-+-+-+-+-+-+-+-+-+-+
//	|M |M |M|M|M|C|M|M|M|C|M|M|M|M|
//	|11|10|9|8|7|1|6|5|4|0|3|2|1|0|
//	+--+--+-+-+-+-+-+-+-+-+-+-+-+-+
const (
	methodABits = 0xf
	methodBBits = 0x70
	methodDBits = 0xf80

	methodBShift = 1
	methodDShift = 2

	c0Bit = 0x1
	c1Bit = 0x2

	classC0Shift = 4
	classC1Shift = 7
)

// MessageType is the STUN Message Type field, split into its class and
// method parts so callers compose BindingRequest, AllocateSuccess, etc.
// instead of memorizing one magic constant per message kind.
type MessageType struct {
	Class  MessageClass
	Method Method
}

// Value returns the 16-bit wire encoding of t.
func (t MessageType) Value() uint16 {
	m := uint16(t.Method)
	a := m & methodABits
	b := m & methodBBits
	d := m & methodDBits
	m = a + (b << methodBShift) + (d << methodDShift)

	c := uint16(t.Class)
	c0 := (c & c0Bit) << classC0Shift
	c1 := (c & c1Bit) << classC1Shift

	return m + c0 + c1
}

// ReadValue decodes the 16-bit wire encoding v into t.
func (t *MessageType) ReadValue(v uint16) {
	c0 := (v >> classC0Shift) & c0Bit
	c1 := (v >> classC1Shift) & c1Bit
	t.Class = MessageClass(c0 + c1)

	a := v & methodABits
	b := (v >> methodBShift) & methodBBits
	d := (v >> methodDShift) & methodDBits
	t.Method = Method(a + b + d)
}

func (t MessageType) String() string {
	return fmt.Sprintf("%s %s", t.Method, t.Class)
}

// Well-known message types.
var (
	BindingRequest          = MessageType{ClassRequest, MethodBinding}
	BindingSuccess          = MessageType{ClassSuccessResponse, MethodBinding}
	BindingFailure          = MessageType{ClassErrorResponse, MethodBinding}
	BindingIndication       = MessageType{ClassIndication, MethodBinding}
	AllocateRequest         = MessageType{ClassRequest, MethodAllocate}
	AllocateSuccess         = MessageType{ClassSuccessResponse, MethodAllocate}
	AllocateFailure         = MessageType{ClassErrorResponse, MethodAllocate}
	RefreshRequest          = MessageType{ClassRequest, MethodRefresh}
	RefreshSuccess          = MessageType{ClassSuccessResponse, MethodRefresh}
	RefreshFailure          = MessageType{ClassErrorResponse, MethodRefresh}
	CreatePermissionRequest = MessageType{ClassRequest, MethodCreatePermission}
	CreatePermissionSuccess = MessageType{ClassSuccessResponse, MethodCreatePermission}
	CreatePermissionFailure = MessageType{ClassErrorResponse, MethodCreatePermission}
	ChannelBindRequest      = MessageType{ClassRequest, MethodChannelBind}
	ChannelBindSuccess      = MessageType{ClassSuccessResponse, MethodChannelBind}
	ChannelBindFailure      = MessageType{ClassErrorResponse, MethodChannelBind}
	SendIndication          = MessageType{ClassIndication, MethodSend}
	DataIndication          = MessageType{ClassIndication, MethodData}
)

// AttrType is a STUN attribute type, the 16-bit key of a TLV.
type AttrType uint16

// Attribute types recognized by this package.
const (
	AttrMappedAddress     AttrType = 0x0001
	AttrResponseAddress   AttrType = 0x0002
	AttrChangeRequest     AttrType = 0x0003
	AttrSourceAddress     AttrType = 0x0004
	AttrChangedAddress    AttrType = 0x0005
	AttrUsername          AttrType = 0x0006
	AttrPassword          AttrType = 0x0007
	AttrMessageIntegrity  AttrType = 0x0008
	AttrErrorCode         AttrType = 0x0009
	AttrUnknownAttributes AttrType = 0x000A
	AttrReflectedFrom     AttrType = 0x000B
	AttrChannelNumber     AttrType = 0x000C
	AttrLifetime          AttrType = 0x000D
	AttrXORPeerAddress    AttrType = 0x0012
	AttrData              AttrType = 0x0013
	AttrRealm             AttrType = 0x0014
	AttrNonce             AttrType = 0x0015
	AttrXORRelayedAddress AttrType = 0x0016
	AttrEvenPort          AttrType = 0x0018
	AttrRequestedTransport AttrType = 0x0019
	AttrDontFragment      AttrType = 0x001A
	AttrXORMappedAddress  AttrType = 0x0020
	AttrReservationToken  AttrType = 0x0022
	AttrPriority          AttrType = 0x0024
	AttrUseCandidate      AttrType = 0x0025
	AttrFingerprint       AttrType = 0x8028
	AttrICEControlled     AttrType = 0x8029
	AttrICEControlling    AttrType = 0x802A
)

var attrTypeNames = map[AttrType]string{
	AttrMappedAddress:      "MAPPED-ADDRESS",
	AttrResponseAddress:    "RESPONSE-ADDRESS",
	AttrChangeRequest:      "CHANGE-REQUEST",
	AttrSourceAddress:      "SOURCE-ADDRESS",
	AttrChangedAddress:     "CHANGED-ADDRESS",
	AttrUsername:           "USERNAME",
	AttrPassword:           "PASSWORD",
	AttrMessageIntegrity:   "MESSAGE-INTEGRITY",
	AttrErrorCode:          "ERROR-CODE",
	AttrUnknownAttributes:  "UNKNOWN-ATTRIBUTES",
	AttrReflectedFrom:      "REFLECTED-FROM",
	AttrChannelNumber:      "CHANNEL-NUMBER",
	AttrLifetime:           "LIFETIME",
	AttrXORPeerAddress:     "XOR-PEER-ADDRESS",
	AttrData:               "DATA",
	AttrRealm:              "REALM",
	AttrNonce:              "NONCE",
	AttrXORRelayedAddress:  "XOR-RELAYED-ADDRESS",
	AttrEvenPort:           "EVEN-PORT",
	AttrRequestedTransport: "REQUESTED-TRANSPORT",
	AttrDontFragment:       "DONT-FRAGMENT",
	AttrXORMappedAddress:   "XOR-MAPPED-ADDRESS",
	AttrReservationToken:   "RESERVATION-TOKEN",
	AttrPriority:           "PRIORITY",
	AttrUseCandidate:       "USE-CANDIDATE",
	AttrFingerprint:        "FINGERPRINT",
	AttrICEControlled:      "ICE-CONTROLLED",
	AttrICEControlling:     "ICE-CONTROLLING",
}

func (t AttrType) String() string {
	if name, ok := attrTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(t))
}
