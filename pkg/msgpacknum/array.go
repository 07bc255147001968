package msgpacknum

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Dtype strings follow the numpy array-interface convention: a byte-order
// character followed by a type character and the element size in bytes.
const (
	DtypeFloat32 = "<f4"
	DtypeFloat64 = "<f8"
	DtypeInt32   = "<i4"
	DtypeInt64   = "<i8"
	DtypeUint8   = "|u1"
)

var dtypeSizes = map[string]int{
	"|b1":        1,
	"|i1":        1,
	"|u1":        1,
	"<i2":        2,
	"<u2":        2,
	"<i4":        4,
	"<u4":        4,
	"<i8":        8,
	"<u8":        8,
	DtypeFloat32: 4,
	DtypeFloat64: 8,
}

// Array is a fixed-shape numeric array with its dtype and shape preserved
// across the wire. Element data is stored raw in little-endian order.
type Array struct {
	dtype string
	shape []int
	data  []byte
}

// NewArray creates an array from raw element data. The data length must match
// the dtype element size times the number of elements implied by the shape.
func NewArray(dtype string, shape []int, data []byte) (*Array, error) {
	size, ok := dtypeSizes[dtype]
	if !ok {
		return nil, fmt.Errorf("unsupported dtype: %q", dtype)
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension in shape: %v", shape)
		}
		n *= dim
	}
	if len(data) != n*size {
		return nil, fmt.Errorf("data length %d does not match shape %v of dtype %s (want %d bytes)", len(data), shape, dtype, n*size)
	}
	return &Array{dtype: dtype, shape: append([]int(nil), shape...), data: data}, nil
}

// NewFloat32Array creates a float32 array from element values.
func NewFloat32Array(shape []int, values []float32) *Array {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	arr, err := NewArray(DtypeFloat32, shape, data)
	if err != nil {
		panic(err)
	}
	return arr
}

// NewFloat64Array creates a float64 array from element values.
func NewFloat64Array(shape []int, values []float64) *Array {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	arr, err := NewArray(DtypeFloat64, shape, data)
	if err != nil {
		panic(err)
	}
	return arr
}

// NewInt64Array creates an int64 array from element values.
func NewInt64Array(shape []int, values []int64) *Array {
	data := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], uint64(v))
	}
	arr, err := NewArray(DtypeInt64, shape, data)
	if err != nil {
		panic(err)
	}
	return arr
}

// NewUint8Array creates a uint8 array, typically used for image data.
func NewUint8Array(shape []int, values []byte) *Array {
	arr, err := NewArray(DtypeUint8, shape, append([]byte(nil), values...))
	if err != nil {
		panic(err)
	}
	return arr
}

// Dtype returns the array's dtype string.
func (a *Array) Dtype() string { return a.dtype }

// Shape returns a copy of the array's shape.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Len returns the total number of elements.
func (a *Array) Len() int {
	n := 1
	for _, dim := range a.shape {
		n *= dim
	}
	return n
}

// Data returns the raw little-endian element data.
func (a *Array) Data() []byte { return a.data }

// Float32s decodes the element data as float32 values.
func (a *Array) Float32s() ([]float32, error) {
	if a.dtype != DtypeFloat32 {
		return nil, fmt.Errorf("dtype is %s, not %s", a.dtype, DtypeFloat32)
	}
	out := make([]float32, a.Len())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.data[i*4:]))
	}
	return out, nil
}

// Float64s decodes the element data as float64 values.
func (a *Array) Float64s() ([]float64, error) {
	if a.dtype != DtypeFloat64 {
		return nil, fmt.Errorf("dtype is %s, not %s", a.dtype, DtypeFloat64)
	}
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(a.data[i*8:]))
	}
	return out, nil
}

// Int64s decodes the element data as int64 values.
func (a *Array) Int64s() ([]int64, error) {
	if a.dtype != DtypeInt64 {
		return nil, fmt.Errorf("dtype is %s, not %s", a.dtype, DtypeInt64)
	}
	out := make([]int64, a.Len())
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(a.data[i*8:]))
	}
	return out, nil
}

// Uint8s decodes the element data as uint8 values.
func (a *Array) Uint8s() ([]byte, error) {
	if a.dtype != DtypeUint8 {
		return nil, fmt.Errorf("dtype is %s, not %s", a.dtype, DtypeUint8)
	}
	return append([]byte(nil), a.data...), nil
}

// MarshalJSON renders the array as a readable object for display purposes.
// Element values are decoded when the dtype supports it.
func (a *Array) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"dtype": a.dtype,
		"shape": a.shape,
	}
	switch a.dtype {
	case DtypeFloat32:
		vals, _ := a.Float32s()
		out["values"] = vals
	case DtypeFloat64:
		vals, _ := a.Float64s()
		out["values"] = vals
	case DtypeInt64:
		vals, _ := a.Int64s()
		out["values"] = vals
	case DtypeUint8:
		out["values"] = a.data
	default:
		out["data"] = a.data
	}
	return json.Marshal(out)
}
