package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteger_Accessors(t *testing.T) {
	tests := []struct {
		name      string
		value     Integer
		wantInt   int64
		intOK     bool
		wantUint  uint64
		uintOK    bool
		wantFloat float64
		str       string
	}{
		{
			name:      "zero",
			value:     IntegerFromInt64(0),
			wantInt:   0,
			intOK:     true,
			wantUint:  0,
			uintOK:    true,
			wantFloat: 0,
			str:       "0",
		},
		{
			name:      "negative",
			value:     IntegerFromInt64(-42),
			wantInt:   -42,
			intOK:     true,
			uintOK:    false,
			wantFloat: -42,
			str:       "-42",
		},
		{
			name:      "min int64",
			value:     IntegerFromInt64(math.MinInt64),
			wantInt:   math.MinInt64,
			intOK:     true,
			uintOK:    false,
			wantFloat: math.MinInt64,
			str:       "-9223372036854775808",
		},
		{
			name:      "max int64 from unsigned",
			value:     IntegerFromUint64(math.MaxInt64),
			wantInt:   math.MaxInt64,
			intOK:     true,
			wantUint:  math.MaxInt64,
			uintOK:    true,
			wantFloat: math.MaxInt64,
			str:       "9223372036854775807",
		},
		{
			name:      "max uint64",
			value:     IntegerFromUint64(math.MaxUint64),
			intOK:     false,
			wantUint:  math.MaxUint64,
			uintOK:    true,
			wantFloat: math.MaxUint64,
			str:       "18446744073709551615",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := tt.value.Int64()
			assert.Equal(t, tt.intOK, ok)
			if ok {
				assert.Equal(t, tt.wantInt, i)
			}

			u, ok := tt.value.Uint64()
			assert.Equal(t, tt.uintOK, ok)
			if ok {
				assert.Equal(t, tt.wantUint, u)
			}

			f, ok := tt.value.Float64()
			assert.True(t, ok)
			assert.Equal(t, tt.wantFloat, f)

			assert.Equal(t, tt.str, tt.value.String())
		})
	}
}

func TestJSONObject_InsertionOrderAndOverwrite(t *testing.T) {
	obj := NewJSONObject(0)
	obj.Set("b", JSONInt(1))
	obj.Set("a", JSONInt(2))
	obj.Set("b", JSONInt(3))

	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())

	v, ok := obj.Get("b")
	assert.True(t, ok)
	assert.Equal(t, JSONInt(3), v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", TypeName(Nil{}))
	assert.Equal(t, "integer", TypeName(IntegerFromInt64(1)))
	assert.Equal(t, "binary", TypeName(Binary("x")))
	assert.Equal(t, "extension", TypeName(Extension{Type: 1}))
	assert.Equal(t, "map", TypeName(Map{}))
}
