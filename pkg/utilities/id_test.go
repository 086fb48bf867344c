package utilities

import (
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
)

func TestNewKSUID(t *testing.T) {
	a := NewKSUID()
	b := NewKSUID()

	require.NotEqual(t, a, b)
	_, err := ksuid.Parse(a)
	require.NoError(t, err)
}

func TestNewRequestID(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()

	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}
