package fpcrc

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_XORsRawCRC(t *testing.T) {
	b := []byte("the quick brown fox jumps over the lazy dog")
	got := Value(b)
	require.Equal(t, crc32.ChecksumIEEE(b)^xorValue, got)
}

func TestValue_DifferentInputsDifferentChecksums(t *testing.T) {
	require.NotEqual(t, Value([]byte("a")), Value([]byte("b")))
}
