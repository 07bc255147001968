package msgpacknum

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// arrayKey tags a msgpack map as an encoded Array.
const arrayKey = "__ndarray__"

// Pack encodes a structured mapping to msgpack bytes. Array values anywhere
// in the tree are replaced by their tagged map representation.
func Pack(v map[string]any) ([]byte, error) {
	norm, err := normalize(v)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(norm)
	if err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}
	return data, nil
}

// Unpack decodes msgpack bytes into a structured mapping. Tagged array maps
// anywhere in the tree are revived into *Array values. Integers decode as
// int64 and floats as float64.
func Unpack(data []byte) (map[string]any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("msgpack decode: %w", err)
	}
	revived, err := revive(v)
	if err != nil {
		return nil, err
	}
	m, ok := revived.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decoded value is %T, not a mapping", revived)
	}
	return m, nil
}

func normalize(v any) (any, error) {
	switch val := v.(type) {
	case *Array:
		return map[string]any{
			arrayKey: true,
			"dtype":  val.dtype,
			"shape":  val.shape,
			"data":   val.data,
		}, nil
	case Array:
		return normalize(&val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			norm, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	default:
		return v, nil
	}
}

func revive(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if tagged, ok := val[arrayKey].(bool); ok && tagged {
			return reviveArray(val)
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			revived, err := revive(item)
			if err != nil {
				return nil, err
			}
			out[k] = revived
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			revived, err := revive(item)
			if err != nil {
				return nil, err
			}
			out[i] = revived
		}
		return out, nil
	default:
		return v, nil
	}
}

func reviveArray(m map[string]any) (*Array, error) {
	dtype, ok := m["dtype"].(string)
	if !ok {
		return nil, fmt.Errorf("array map has no dtype string, got %T", m["dtype"])
	}
	rawShape, ok := m["shape"].([]any)
	if !ok {
		return nil, fmt.Errorf("array map has no shape sequence, got %T", m["shape"])
	}
	shape := make([]int, len(rawShape))
	for i, dim := range rawShape {
		n, ok := dim.(int64)
		if !ok {
			return nil, fmt.Errorf("array shape dimension is %T, not an integer", dim)
		}
		shape[i] = int(n)
	}
	data, ok := m["data"].([]byte)
	if !ok {
		return nil, fmt.Errorf("array map has no binary data, got %T", m["data"])
	}
	arr, err := NewArray(dtype, shape, data)
	if err != nil {
		return nil, fmt.Errorf("revive array: %w", err)
	}
	return arr, nil
}
