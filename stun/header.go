package stun

// Header is a decoded or caller-supplied STUN message header.
//
// On decode, TransactionID is a copy of the input buffer's 12
// transaction-ID bytes; on encode, the caller supplies it and it is
// copied into the output buffer.
type Header struct {
	Type          MessageType
	TransactionID [TransactionIDSize]byte
}

const (
	headerTypeOffset          = 0
	headerLengthOffset        = 2
	headerMagicCookieOffset   = 4
	headerTransactionIDOffset = 8
)

func writeHeader(buf []byte, rw *endianFuncs, h *Header) {
	rw.putUint16(buf[headerTypeOffset:], h.Type.Value())
	rw.putUint16(buf[headerLengthOffset:], 0) // patched by Finalize
	rw.putUint32(buf[headerMagicCookieOffset:], magicCookie)
	copy(buf[headerTransactionIDOffset:HeaderSize], h.TransactionID[:])
}
