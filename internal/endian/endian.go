// Package endian provides the big-endian 32-bit word codec used at every
// byte/word boundary in the KDF: memory arrays are native-order []uint32,
// but anything crossing into or out of a hash primitive is canonicalized to
// big-endian bytes first.
package endian

import "encoding/binary"

// EncodeVect packs n 32-bit words from src into dst as big-endian bytes.
// dst must have length >= 4*len(src).
func EncodeVect(dst []byte, src []uint32) {
	for i, w := range src {
		binary.BigEndian.PutUint32(dst[4*i:], w)
	}
}

// DecodeVect unpacks big-endian 32-bit words from src into dst.
// src must have length >= 4*len(dst).
func DecodeVect(dst []uint32, src []byte) {
	for i := range dst {
		dst[i] = binary.BigEndian.Uint32(src[4*i:])
	}
}

// PutUint32 big-endian encodes a single word, the vector form's scalar
// counterpart used for one-off tweaks (garlic level, worker index, ...).
func PutUint32(dst []byte, v uint32) {
	binary.BigEndian.PutUint32(dst, v)
}

// Uint32 big-endian decodes a single word.
func Uint32(src []byte) uint32 {
	return binary.BigEndian.Uint32(src)
}
