package wasmdebug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
)

func TestFuncName(t *testing.T) {
	tests := []struct {
		name, moduleName, funcName string
		funcIdx                    uint32
		expected                   string
	}{
		{name: "all empty", expected: ".$0"},
		{name: "empty module", funcName: "y", expected: ".y"},
		{name: "empty function", moduleName: "x", funcIdx: 255, expected: "x.$255"},
		{name: "both set", moduleName: "x", funcName: "y", expected: "x.y"},
		{name: "dots in module", moduleName: "w.x", funcName: "y", expected: "w.x.y"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, FuncName(tc.moduleName, tc.funcName, tc.funcIdx))
		})
	}
}

func TestSignature(t *testing.T) {
	i32, i64, f32 := api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32
	tests := []struct {
		name                    string
		paramTypes, resultTypes []api.ValueType
		expected                string
	}{
		{name: "void", expected: "x.y()"},
		{name: "one param", paramTypes: []api.ValueType{i32}, expected: "x.y(i32)"},
		{name: "two params", paramTypes: []api.ValueType{i32, f32}, expected: "x.y(i32,f32)"},
		{name: "one result", resultTypes: []api.ValueType{i64}, expected: "x.y() i64"},
		{name: "two results", resultTypes: []api.ValueType{i64, f32}, expected: "x.y() (i64,f32)"},
		{name: "both", paramTypes: []api.ValueType{i32}, resultTypes: []api.ValueType{i64}, expected: "x.y(i32) i64"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, signature("x.y", tc.paramTypes, tc.resultTypes))
		})
	}
}

func TestErrorBuilder(t *testing.T) {
	cause := errors.New("integer divide by zero")

	b := NewErrorBuilder()
	b.AddFrame("env.callback", []api.ValueType{api.ValueTypeI32}, nil)
	b.AddFrame("main.divide", []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32})

	traced := b.FromRecovered(cause)
	require.Equal(t, cause, errors.Unwrap(traced))
	require.Equal(t, "integer divide by zero (recovered during execution)\n"+
		"stack trace:\n\tenv.callback(i32)\n\tmain.divide(i32,i32) i32", traced.Error())
}
