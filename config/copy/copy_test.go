package copy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	src := []string{"a", "b"}

	dst := Slice(src)
	require.Equal(t, src, dst)

	dst[0] = "c"
	require.Equal(t, "a", src[0])

	require.Equal(t, []int{}, Slice[int](nil))
}
