package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDV7(t *testing.T) {
	a, b := GenerateUUIDV7(), GenerateUUIDV7()
	require.True(t, IsUUIDV7(a))
	require.NotEqual(t, a, b)
}

func TestIsUUIDV7(t *testing.T) {
	require.False(t, IsUUIDV7(""))
	require.False(t, IsUUIDV7("not-a-uuid"))
	require.False(t, IsUUIDV7("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
