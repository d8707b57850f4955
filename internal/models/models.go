package models

import (
	"fmt"
	"math"
	"strconv"
)

// Value is one decoded msgpack value. The set of implementations is closed:
// Nil, Bool, Integer, Float32, Float64, String, Binary, Array, Map and
// Extension.
type Value interface {
	msgpackValue()
}

// Nil is the msgpack nil value.
type Nil struct{}

// Bool is a msgpack boolean.
type Bool bool

// Float32 is a msgpack float 32.
type Float32 float32

// Float64 is a msgpack float 64.
type Float64 float64

// String holds the raw bytes of a msgpack str. The bytes are claimed to be
// UTF-8 but have not been checked.
type String []byte

// Binary holds the raw bytes of a msgpack bin.
type Binary []byte

// Array is an ordered msgpack array.
type Array []Value

// MapEntry is one key/value pair of a msgpack map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map keeps msgpack map entries in wire order. Keys may be of any type and
// may repeat.
type Map []MapEntry

// Extension is a msgpack ext value: an application-defined type code and an
// opaque payload.
type Extension struct {
	Type int8
	Data []byte
}

func (Nil) msgpackValue()       {}
func (Bool) msgpackValue()      {}
func (Integer) msgpackValue()   {}
func (Float32) msgpackValue()   {}
func (Float64) msgpackValue()   {}
func (String) msgpackValue()    {}
func (Binary) msgpackValue()    {}
func (Array) msgpackValue()     {}
func (Map) msgpackValue()       {}
func (Extension) msgpackValue() {}

// Integer is a msgpack integer. Negative values are stored as int64 and
// non-negative values as uint64, so the full range of both families fits.
type Integer struct {
	negative bool
	bits     uint64
}

// IntegerFromInt64 builds an Integer from a signed value.
func IntegerFromInt64(n int64) Integer {
	if n < 0 {
		return Integer{negative: true, bits: uint64(n)}
	}
	return Integer{bits: uint64(n)}
}

// IntegerFromUint64 builds an Integer from an unsigned value.
func IntegerFromUint64(n uint64) Integer {
	return Integer{bits: n}
}

// Int64 returns the value as int64 if it fits.
func (i Integer) Int64() (int64, bool) {
	if i.negative {
		return int64(i.bits), true
	}
	if i.bits > math.MaxInt64 {
		return 0, false
	}
	return int64(i.bits), true
}

// Uint64 returns the value as uint64 if it is non-negative.
func (i Integer) Uint64() (uint64, bool) {
	if i.negative {
		return 0, false
	}
	return i.bits, true
}

// Float64 returns the nearest float64. Every 64-bit integer has one, so ok is
// always true for values produced by the decoder.
func (i Integer) Float64() (float64, bool) {
	if i.negative {
		return float64(int64(i.bits)), true
	}
	return float64(i.bits), true
}

// String implements fmt.Stringer.
func (i Integer) String() string {
	if i.negative {
		return strconv.FormatInt(int64(i.bits), 10)
	}
	return strconv.FormatUint(i.bits, 10)
}

// TypeName returns a short human readable name for the msgpack type of v.
func TypeName(v Value) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Integer:
		return "integer"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Binary:
		return "binary"
	case Array:
		return "array"
	case Map:
		return "map"
	case Extension:
		return "extension"
	default:
		return fmt.Sprintf("%T", v)
	}
}
