package stun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_ComparesByValue(t *testing.T) {
	require.True(t, errors.Is(ErrBadParam, ErrBadParam))
	require.False(t, errors.Is(ErrBadParam, ErrOutOfMemory))
}

func TestAttrLengthError_IsSentinel(t *testing.T) {
	err := &AttrLengthError{Attr: AttrUsername, Got: 3, Expected: 4}
	require.ErrorIs(t, err, ErrInvalidAttributeLength)
	require.NotErrorIs(t, err, ErrBadParam)
	require.Contains(t, err.Error(), "USERNAME")
}
