package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/internal/value"
)

func TestDataDropIsMonotonicAndZeroesSize(t *testing.T) {
	d := NewData([]byte{1, 2, 3})
	require.Equal(t, 3, d.Size())
	d.Drop()
	require.Equal(t, 0, d.Size())
	require.Nil(t, d.Bytes())
	d.Drop() // idempotent
	require.True(t, d.Dropped())
}

func TestElementDropIsMonotonicAndZeroesSize(t *testing.T) {
	e := NewElement([]value.Ref{1, 2, 3})
	require.Equal(t, 3, e.Size())
	require.Equal(t, value.Ref(2), e.Get(1))
	e.Drop()
	require.Equal(t, 0, e.Size())
	require.Nil(t, e.Refs())
}
