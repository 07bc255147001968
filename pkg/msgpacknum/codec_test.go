package msgpacknum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestPackUnpack_Scalars(t *testing.T) {
	in := map[string]any{
		"name":    "panda",
		"steps":   int64(12),
		"rate":    0.5,
		"active":  true,
		"nothing": nil,
		"nested": map[string]any{
			"tags": []any{"a", "b"},
		},
	}

	data, err := Pack(in)
	require.NoError(t, err)

	out, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPackUnpack_Float32Array(t *testing.T) {
	arr := NewFloat32Array([]int{2, 2}, []float32{0.1, 0.2, 0.3, 0.4})
	in := map[string]any{"state": arr}

	data, err := Pack(in)
	require.NoError(t, err)

	out, err := Unpack(data)
	require.NoError(t, err)

	got, ok := out["state"].(*Array)
	require.True(t, ok, "state should revive as *Array, got %T", out["state"])
	assert.Equal(t, DtypeFloat32, got.Dtype())
	assert.Equal(t, []int{2, 2}, got.Shape())

	values, err := got.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, values)
}

func TestPackUnpack_Uint8Image(t *testing.T) {
	pixels := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	in := map[string]any{"image": NewUint8Array([]int{2, 2, 3}, pixels)}

	data, err := Pack(in)
	require.NoError(t, err)

	out, err := Unpack(data)
	require.NoError(t, err)

	got, ok := out["image"].(*Array)
	require.True(t, ok)
	assert.Equal(t, []int{2, 2, 3}, got.Shape())

	values, err := got.Uint8s()
	require.NoError(t, err)
	assert.Equal(t, pixels, values)
}

func TestPackUnpack_ArrayInsideSequence(t *testing.T) {
	in := map[string]any{
		"batch": []any{
			map[string]any{"action": NewFloat64Array([]int{2}, []float64{1.5, -2.5})},
		},
	}

	data, err := Pack(in)
	require.NoError(t, err)

	out, err := Unpack(data)
	require.NoError(t, err)

	batch, ok := out["batch"].([]any)
	require.True(t, ok)
	require.Len(t, batch, 1)

	entry, ok := batch[0].(map[string]any)
	require.True(t, ok)

	arr, ok := entry["action"].(*Array)
	require.True(t, ok)
	values, err := arr.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2.5}, values)
}

func TestNewArray_Validation(t *testing.T) {
	tests := []struct {
		name  string
		dtype string
		shape []int
		data  []byte
	}{
		{"unknown dtype", "<c8", []int{1}, make([]byte, 8)},
		{"short data", DtypeFloat32, []int{3}, make([]byte, 8)},
		{"long data", DtypeUint8, []int{2}, make([]byte, 3)},
		{"negative dimension", DtypeUint8, []int{-1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArray(tt.dtype, tt.shape, tt.data)
			assert.Error(t, err)
		})
	}
}

func TestArray_TypedReaderDtypeMismatch(t *testing.T) {
	arr := NewFloat32Array([]int{1}, []float32{1})

	_, err := arr.Float64s()
	assert.Error(t, err)
	_, err = arr.Int64s()
	assert.Error(t, err)
	_, err = arr.Uint8s()
	assert.Error(t, err)
}

func TestUnpack_NotAMapping(t *testing.T) {
	data, err := msgpack.Marshal([]any{1, 2, 3})
	require.NoError(t, err)

	_, err = Unpack(data)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")
}

func TestPackUnpack_UserMapWithArrayKeyName(t *testing.T) {
	// A mapping that merely uses the tag key name is not an encoded array
	// and must round-trip unchanged.
	in := map[string]any{
		"meta": map[string]any{
			arrayKey: "just a field",
			"count":  int64(3),
		},
	}

	data, err := Pack(in)
	require.NoError(t, err)

	out, err := Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnpack_MalformedArrayMap(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{
		"bad": map[string]any{arrayKey: true, "dtype": 7},
	})
	require.NoError(t, err)

	_, err = Unpack(data)
	assert.Error(t, err)
}
