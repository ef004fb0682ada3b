package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
)

func TestFunctionTypeString(t *testing.T) {
	tests := []struct {
		ft  *FunctionType
		exp string
	}{
		{&FunctionType{}, "null_null"},
		{&FunctionType{Params: []api.ValueType{api.ValueTypeI32}}, "i32_null"},
		{&FunctionType{Results: []api.ValueType{api.ValueTypeI64}}, "null_i64"},
		{&FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI64}}, "i32_i64"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.exp, tc.ft.String())
	}
}

func TestFunctionTypeCache(t *testing.T) {
	ft := &FunctionType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI64},
		Results: []api.ValueType{api.ValueTypeV128},
	}
	ft.Cache()
	require.Equal(t, 4+8, ft.ParamStackSize())
	require.Equal(t, 16, ft.ResultStackSize())
}

func TestModuleTypeOfFunction(t *testing.T) {
	i32i32 := &FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	voidvoid := &FunctionType{}
	m := &Module{
		TypeSection: []*FunctionType{i32i32, voidvoid},
		ImportSection: []*Import{
			{Module: "env", Name: "f", Type: api.ExternTypeFunc, DescFunc: 1},
		},
		FunctionSection: []Index{0},
	}
	require.Same(t, voidvoid, m.TypeOfFunction(0))
	require.Same(t, i32i32, m.TypeOfFunction(1))
}

func TestFeaturesHas(t *testing.T) {
	f := FeatureSIMD | FeatureBulkMemory
	require.True(t, f.Has(FeatureSIMD))
	require.False(t, f.Has(FeatureTailCall))
	require.True(t, f.Has(FeatureSIMD|FeatureBulkMemory))
}
