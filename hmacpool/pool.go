// Package hmacpool computes the HMAC-SHA1 and HMAC-SHA256 digests a
// STUN MESSAGE-INTEGRITY attribute carries, pooling the underlying
// hash state across calls instead of allocating a fresh one per
// message. STUN rekeys on every message (the key is derived from a
// per-session password), so AcquireSHA1/AcquireSHA256 rekey a pooled
// digest in place, unlike the stdlib crypto/hmac construction whose
// Reset only returns to its original key. Reset on a digest from this
// package rekeys it to the empty key.
package hmacpool

import (
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"sync"
)

// hmac is a minimal from-scratch HMAC (RFC 2104) that exposes
// resetTo, so a pooled instance can be rekeyed for the next message
// instead of being discarded.
type hmac struct {
	outer, inner hash.Hash
	ipad, opad   []byte
	blocksize    int
}

func newHMAC(newHash func() hash.Hash, blocksize int) *hmac {
	return &hmac{
		outer:     newHash(),
		inner:     newHash(),
		ipad:      make([]byte, blocksize),
		opad:      make([]byte, blocksize),
		blocksize: blocksize,
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// resetTo rekeys h and rewinds it to a freshly-keyed state.
func (h *hmac) resetTo(key []byte) {
	h.outer.Reset()
	h.inner.Reset()
	zero(h.ipad)
	zero(h.opad)
	if len(key) > h.blocksize {
		h.outer.Write(key)
		key = h.outer.Sum(nil)
		h.outer.Reset()
	}
	copy(h.ipad, key)
	copy(h.opad, key)
	for i := range h.ipad {
		h.ipad[i] ^= 0x36
	}
	for i := range h.opad {
		h.opad[i] ^= 0x5c
	}
	h.inner.Write(h.ipad)
}

func (h *hmac) Write(p []byte) (int, error) { return h.inner.Write(p) }

func (h *hmac) Sum(b []byte) []byte {
	origLen := len(b)
	in := h.inner.Sum(b)
	h.outer.Reset()
	h.outer.Write(h.opad)
	h.outer.Write(in[origLen:])
	return h.outer.Sum(b[:origLen])
}

func (h *hmac) Reset() { h.resetTo(nil) }

func (h *hmac) Size() int      { return h.outer.Size() }
func (h *hmac) BlockSize() int { return h.blocksize }

var sha1Pool = &sync.Pool{
	New: func() interface{} { return newHMAC(sha1.New, sha1.BlockSize) },
}

var sha256Pool = &sync.Pool{
	New: func() interface{} { return newHMAC(sha256.New, sha256.BlockSize) },
}

// AcquireSHA1 returns an HMAC-SHA1 hash.Hash keyed with key, reused
// from a pool where possible. Pair with PutSHA1 once the digest (see
// Sign) has been read.
func AcquireSHA1(key []byte) hash.Hash {
	h := sha1Pool.Get().(*hmac)
	h.resetTo(key)
	return h
}

// PutSHA1 returns h to the pool. h must have come from AcquireSHA1.
func PutSHA1(h hash.Hash) { sha1Pool.Put(h.(*hmac)) }

// AcquireSHA256 is AcquireSHA1's long-term-credential analogue, for
// deployments that negotiate SHA-256 message integrity.
func AcquireSHA256(key []byte) hash.Hash {
	h := sha256Pool.Get().(*hmac)
	h.resetTo(key)
	return h
}

// PutSHA256 returns h to the pool. h must have come from AcquireSHA256.
func PutSHA256(h hash.Hash) { sha256Pool.Put(h.(*hmac)) }

// Sign computes the HMAC-SHA1 of msg under key, using a pooled digest.
// The returned slice is always freshly allocated (len 20) and safe to
// retain after Sign returns.
func Sign(key, msg []byte) []byte {
	h := AcquireSHA1(key)
	defer PutSHA1(h)
	h.Write(msg)
	return h.Sum(nil)
}

// Sign256 is Sign's HMAC-SHA256 analogue.
func Sign256(key, msg []byte) []byte {
	h := AcquireSHA256(key)
	defer PutSHA256(h)
	h.Write(msg)
	return h.Sum(nil)
}
