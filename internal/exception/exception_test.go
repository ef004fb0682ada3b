package exception

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/wasm"
)

func TestTagIdentityEquality(t *testing.T) {
	t1 := New(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}})
	t2 := New(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}})
	require.NotSame(t, t1, t2) // structurally identical, still distinct tags
	require.True(t, t1 == t1)
}

func TestUserExceptionRoundTripsThroughTrapRun(t *testing.T) {
	tg := New(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}})
	payload := make([]byte, 8)
	exc := NewUser(tg, payload, []Frame{{FrameID: 1, PC: 42}})

	result := trap.Run(func() {
		Throw(exc)
	})
	require.True(t, result.Trapped())
	got, ok := result.Unwind.(*Exception)
	require.True(t, ok)
	require.Same(t, tg, got.Tag)
	require.True(t, got.IsUser())

	pc, found := got.PCAt(1)
	require.True(t, found)
	require.Equal(t, 42, pc)

	_, found = got.PCAt(999)
	require.False(t, found)
}

func TestBuiltinExceptionMessage(t *testing.T) {
	exc := NewBuiltin("boom")
	require.False(t, exc.IsUser())
	require.Equal(t, "boom", exc.Error())
}
