package hmacpool

import (
	stdhmac "crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSign_MatchesStdlibHMACSHA1(t *testing.T) {
	key := []byte("password")
	msg := []byte("the quick brown fox")

	want := stdhmac.New(sha1.New, key)
	want.Write(msg)

	got := Sign(key, msg)
	require.Equal(t, want.Sum(nil), got)
}

func TestSign256_MatchesStdlibHMACSHA256(t *testing.T) {
	key := []byte("password")
	msg := []byte("the quick brown fox")

	want := stdhmac.New(sha256.New, key)
	want.Write(msg)

	got := Sign256(key, msg)
	require.Equal(t, want.Sum(nil), got)
}

func TestAcquireSHA1_ReusableAfterRekey(t *testing.T) {
	h := AcquireSHA1([]byte("key-one"))
	h.Write([]byte("msg-one"))
	first := h.Sum(nil)
	PutSHA1(h)

	h2 := AcquireSHA1([]byte("key-two"))
	h2.Write([]byte("msg-two"))
	second := h2.Sum(nil)
	PutSHA1(h2)

	require.NotEqual(t, first, second)
	require.Len(t, first, sha1.Size)
}

func TestSign_LongKeyIsHashedFirst(t *testing.T) {
	longKey := make([]byte, sha1.BlockSize+10)
	for i := range longKey {
		longKey[i] = byte(i)
	}
	msg := []byte("payload")

	want := stdhmac.New(sha1.New, longKey)
	want.Write(msg)

	require.Equal(t, want.Sum(nil), Sign(longKey, msg))
}
