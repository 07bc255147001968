// Package msgpacknum implements the msgpack wire codec used between policy
// clients and inference servers, including the numpy-style extension for
// fixed-shape numeric arrays.
//
// Invariants:
// - Supported values round-trip exactly, including array dtype and shape.
// - Arrays travel as msgpack maps tagged with an "__ndarray__" key holding
//   dtype, shape and raw little-endian element data.
// - Everything else is plain msgpack.
//
// Usage:
//
//	obs := map[string]any{"state": msgpacknum.NewFloat32Array([]int{3}, []float32{0.1, 0.2, 0.3})}
//	data, _ := msgpacknum.Pack(obs)
//	back, _ := msgpacknum.Unpack(data)
//	_ = back
package msgpacknum
