// Package state implements the 8-word state primitives shared by the mixer,
// the memory-filling passes, and the multiplication pacer: deriving a new
// state from an old one via H, and securely wiping sensitive buffers.
package state

import (
	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
)

// Size is the number of 32-bit words in a state vector.
const Size = 8

// Bytes is the canonical big-endian encoding size of a state vector.
const Bytes = 4 * Size

// HashWithSalt derives a new 8-word state from in, tweaked by a 32-bit
// salt value, via H. out and in may alias.
func HashWithSalt(out, in []uint32, salt uint32) {
	var inBuf, outBuf, saltBuf [Bytes]byte
	endian.EncodeVect(inBuf[:], in)
	endian.PutUint32(saltBuf[:4], salt)

	digest.H(outBuf[:], inBuf[:], saltBuf[:4])
	endian.DecodeVect(out, outBuf[:])
}

// HashState applies H in place to a full 8-word state: canonical BE encode,
// H with no salt, canonical BE decode. Used by the pacer to turn a raw
// multiplication-chain state into a published checkpoint.
func HashState(s []uint32) {
	var buf [Bytes]byte
	endian.EncodeVect(buf[:], s)
	digest.H(buf[:], buf[:], nil)
	endian.DecodeVect(s, buf[:])
}

// SecureZero overwrites every byte of buf with zero, in place, so that
// caller-supplied secrets can be wiped promptly after use.
func SecureZero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// Rotl7 rotates a 32-bit lane left by 7 bits, the mixer's SIMD rotation.
func Rotl7(x uint32) uint32 {
	return (x << 7) | (x >> 25)
}
