// Package digest wraps the two cryptographic collaborators the design
// treats as opaque building blocks: H(out, outlen, in, inlen, salt,
// saltlen), a fixed-output hash, and PBKDF2(out, outlen, in, inlen, salt,
// saltlen), a password-based key derivation function. Every caller
// elsewhere in this module only ever sees these two functions; the
// concrete primitives below are an implementation detail.
package digest

import (
	"hash"

	"github.com/gtank/blake2/blake2b"
	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/pbkdf2"

	"github.com/waywardgeek/tigerphs/internal/endian"
)

// blockOutput is the largest single-call output blake2b can produce; larger
// requests are expanded in blockOutput-sized chunks keyed by a counter.
const blockOutput = blake2b.MaxOutput

// H derives len(out) bytes from in, tweaked by salt, and writes them to out.
// out and in may alias (several callers hash a buffer in place); in is
// snapshotted up front so writes to out never corrupt bytes still to be
// read. salt must be small enough to fit blake2b's native salt field (16
// bytes); every call site in this module passes a 0-4 byte tweak, never
// user salt.
func H(out []byte, in []byte, salt []byte) {
	inCopy := append([]byte(nil), in...)

	produced := 0
	var counter uint32
	var counterBuf [4]byte
	for produced < len(out) {
		n := len(out) - produced
		if n > blockOutput {
			n = blockOutput
		}
		d, err := blake2b.NewDigest(nil, salt, nil, n)
		if err != nil {
			// Only reachable if salt exceeds blake2b.SaltLength, which no
			// caller in this module ever passes.
			panic("digest: " + err.Error())
		}
		endian.PutUint32(counterBuf[:], counter)
		d.Write(counterBuf[:])
		d.Write(inCopy)
		sum := d.Sum(nil)
		copy(out[produced:produced+n], sum)
		produced += n
		counter++
	}
}

// PBKDF2 derives len(out) bytes from in and salt with a single iteration.
// The strengthening work is done by the KDF's memory-hard passes, not by
// PBKDF2 iteration count; this call only mixes the password and salt into
// a fixed-size seed.
func PBKDF2(out []byte, in []byte, salt []byte) {
	copy(out, pbkdf2.Key(in, salt, 1, len(out), newHasher))
}

func newHasher() hash.Hash {
	return sha256simd.New()
}
