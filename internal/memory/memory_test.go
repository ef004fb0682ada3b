package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/internal/trap"
)

func TestNewZeroFilled(t *testing.T) {
	m := New(1, 10, false)
	require.Equal(t, uint32(PageSize), m.SizeInBytes())
	for _, b := range m.Buffer() {
		require.Zero(t, b)
	}
}

func TestGrowPreservesAndZeroFills(t *testing.T) {
	m := New(1, 10, false)
	m.Store(0, 0, []byte{1, 2, 3, 4})

	old, ok := m.Grow(3)
	require.True(t, ok)
	require.Equal(t, uint32(1), old)
	require.Equal(t, uint32(4*PageSize), m.SizeInBytes())

	out := make([]byte, 4)
	m.Load(0, 0, 4, out)
	require.Equal(t, []byte{1, 2, 3, 4}, out)

	tail := make([]byte, 4)
	m.Load(uint64(PageSize), 0, 4, tail)
	require.Equal(t, []byte{0, 0, 0, 0}, tail)
}

func TestGrowFailsLeavesUnchanged(t *testing.T) {
	m := New(1, 2, false)
	_, ok := m.Grow(5)
	require.False(t, ok)
	require.Equal(t, uint32(PageSize), m.SizeInBytes())
}

func TestLoadStoreOutOfBoundsTraps(t *testing.T) {
	m := New(1, 1, false)
	result := trap.Run(func() {
		out := make([]byte, 4)
		m.Load(uint64(PageSize)-2, 0, 4, out)
	})
	require.True(t, result.Trapped())
}

func TestLoadOffsetOverflow(t *testing.T) {
	m := New(1, 1, false)
	result := trap.Run(func() {
		out := make([]byte, 1)
		m.Load(^uint64(0), 2, 1, out)
	})
	require.True(t, result.Trapped())
}

// Scenario 2 from spec.md §8: memory grow + bulk fill.
func TestGrowThenFillScenario(t *testing.T) {
	m := New(1, 10, false)
	old, ok := m.Grow(3)
	require.True(t, ok)
	require.Equal(t, uint32(1), old)

	m.Fill(PageSize, 0xAB, 131072)

	out := make([]byte, 1)
	m.Load(PageSize, 0, 1, out)
	require.Equal(t, byte(0xAB), out[0])
	m.Load(PageSize+131071, 0, 1, out)
	require.Equal(t, byte(0xAB), out[0])

	result := trap.Run(func() {
		m.Load(PageSize+131072, 0, 1, out)
	})
	require.True(t, result.Trapped())
}

func TestCopyOverlapping(t *testing.T) {
	m := New(1, 1, false)
	m.Store(0, 0, []byte{1, 2, 3, 4, 5})
	m.Copy(1, 0, 3)
	out := make([]byte, 4)
	m.Load(0, 0, 4, out)
	require.Equal(t, []byte{1, 1, 2, 3}, out)
}

func TestFillTrapsBeforeWriting(t *testing.T) {
	m := New(1, 1, false)
	m.Store(0, 0, []byte{9})
	result := trap.Run(func() { m.Fill(0, 7, PageSize+1) })
	require.True(t, result.Trapped())
	out := make([]byte, 1)
	m.Load(0, 0, 1, out)
	require.Equal(t, byte(9), out[0]) // untouched
}

func TestInitOutOfRangeDoesNotModify(t *testing.T) {
	m := New(1, 1, false)
	m.Store(0, 0, []byte{9})
	data := []byte{1, 2, 3}
	result := trap.Run(func() { m.Init(data, 0, 0, 10) })
	require.True(t, result.Trapped())
	out := make([]byte, 1)
	m.Load(0, 0, 1, out)
	require.Equal(t, byte(9), out[0])
}
