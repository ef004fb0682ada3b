//go:build amd64 && cgo

package bench

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnginesAgree sanity-checks the three setup helpers against each other
// before trusting BenchmarkAddOne's numbers: a benchmark comparing engines
// that don't even compute the same thing is worthless.
func TestEnginesAgree(t *testing.T) {
	own, err := ownAddOne()
	require.NoError(t, err)
	wt, err := wasmtimeAddOne()
	require.NoError(t, err)
	wr, err := wasmerAddOne()
	require.NoError(t, err)

	for _, in := range []int32{0, 1, -1, 41} {
		want := in + 1
		require.Equal(t, want, own(in))
		require.Equal(t, want, wt(in))
		require.Equal(t, want, wr(in))
	}
}

// BenchmarkAddOne compares this engine's interpreter call overhead against
// wasmtime and wasmer on the same trivial exported function, isolating
// per-call dispatch cost from any one engine's parsing or compilation
// strategy.
func BenchmarkAddOne(b *testing.B) {
	b.Run("own", func(b *testing.B) {
		fn, err := ownAddOne()
		require.NoError(b, err)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			fn(int32(i))
		}
	})
	b.Run("wasmtime", func(b *testing.B) {
		fn, err := wasmtimeAddOne()
		require.NoError(b, err)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			fn(int32(i))
		}
	})
	b.Run("wasmer", func(b *testing.B) {
		fn, err := wasmerAddOne()
		require.NoError(b, err)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			fn(int32(i))
		}
	})
}
