// Package fpcrc computes the CRC-32 checksum a STUN FINGERPRINT
// attribute carries.
package fpcrc

import "hash/crc32"

// xorValue is XORed into the raw CRC-32 so a FINGERPRINT attribute
// never collides with an application payload that also happens to use
// plain CRC-32 (RFC 5389 §15.5).
const xorValue uint32 = 0x5354554e

// Value returns the CRC-32 IEEE checksum of b, XORed with 0x5354554e.
// b must be the message bytes up to but excluding the FINGERPRINT
// attribute itself; see (*stun.Serializer).GetFingerprintBuffer and
// (*stun.Deserializer)'s equivalent for obtaining that range.
func Value(b []byte) uint32 {
	return crc32.ChecksumIEEE(b) ^ xorValue
}
