package stun

// STUN aligns attribute values on 32-bit boundaries: a value whose
// length is not a multiple of 4 is padded with 1-3 zero bytes so its
// on-wire occupation is a multiple of 4. The padding bits are ignored
// by a reader and may be any value, but this package always zeroes
// them on encode.
//
// https://tools.ietf.org/html/rfc5389#section-15
const wordSize = 4

func align4(n int) int {
	r := n % wordSize
	if r == 0 {
		return n
	}
	return n + (wordSize - r)
}
