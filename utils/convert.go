package utils

import (
	"math/big"
	"reflect"
)

// FromInterface converts an interface value to a big.Int.
//
// Supported types: big.Int, *big.Int, all signed and unsigned integers,
// string (parsed with base detection per big.Int.SetString) and []byte
// (interpreted as big-endian bytes).
//
// Panics if the input cannot be converted.
func FromInterface(input interface{}) big.Int {
	var r big.Int

	switch v := input.(type) {
	case big.Int:
		r.Set(&v)
	case *big.Int:
		r.Set(v)
	case uint8:
		r.SetUint64(uint64(v))
	case uint16:
		r.SetUint64(uint64(v))
	case uint32:
		r.SetUint64(uint64(v))
	case uint64:
		r.SetUint64(v)
	case uint:
		r.SetUint64(uint64(v))
	case int8:
		r.SetInt64(int64(v))
	case int16:
		r.SetInt64(int64(v))
	case int32:
		r.SetInt64(int64(v))
	case int64:
		r.SetInt64(v)
	case int:
		r.SetInt64(int64(v))
	case string:
		if _, ok := r.SetString(v, 0); !ok {
			panic("unable to set big.Int from string " + v)
		}
	case []byte:
		r.SetBytes(v)
	default:
		panic(reflect.TypeOf(input).String() + " to big.Int not supported")
	}

	return r
}
