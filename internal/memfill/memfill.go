// Package memfill implements the two memory-filling passes that run per
// garlic level, grounded on tigerkdf-sse.c's hashWithoutPassword and
// hashWithPassword: a cache-timing-resistant pass with password-independent
// addressing, and a TMTO-resistant pass with state-dependent, cubic-distance
// addressing. Both passes invoke the same block mixer (internal/mixer) and
// fold multiplication-pacer checkpoints into their running state.
package memfill

import (
	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
	"github.com/waywardgeek/tigerphs/internal/mixer"
	"github.com/waywardgeek/tigerphs/internal/state"
)

// Checkpoints is the worker-side view of the multiplication pacer: Await
// blocks until checkpoint i has been published and returns its 8 words.
type Checkpoints interface {
	Await(i uint32) []uint32
}

// mixBlock is a seam onto mixer.Mix so tests can instrument the address
// sequence a pass drives it with, without changing Resistant/Unpredictable's
// own logic.
var mixBlock = mixer.Mix

func foldCheckpoint(st []uint32, i uint32, cps Checkpoints) {
	cp := cps.Await(i)
	for k := range st {
		st[k] ^= cp[k]
	}
	state.HashState(st)
}

// bitReverse reverses the lowest n bits of x.
func bitReverse(x uint32, n uint32) uint32 {
	var result uint32
	for i := uint32(0); i < n; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

// Resistant fills worker p's first-half region ([2p*numblocks*blocklen,
// (2p+1)*numblocks*blocklen) in mem) with password-independent addressing,
// using Solar Designer's sliding-power-of-two window with Catena-style
// bit-reversal. st is the worker's running 8-word state, seeded by the
// caller once per garlic level (internal/kdf) and shared with the
// Unpredictable call that follows for this worker and level.
func Resistant(mem []uint32, hash []byte, p, blocklen, numblocks, multiplies, repetitions uint32, st []uint32, cps Checkpoints) {
	start := 2 * uint64(p) * uint64(numblocks) * uint64(blocklen)

	threadKey := make([]byte, uint64(blocklen)*4)
	var pBuf [4]byte
	endian.PutUint32(pBuf[:], p)
	digest.H(threadKey, hash, pBuf[:])
	endian.DecodeVect(mem[start:start+uint64(blocklen)], threadKey)

	var mask, numBits uint32 = 1, 0
	toAddr := start + uint64(blocklen)
	for i := uint32(1); i < numblocks; i++ {
		if mask<<1 <= i {
			mask <<= 1
			numBits++
		}
		reversePos := bitReverse(i, numBits)
		if reversePos+mask < i {
			reversePos += mask
		}
		fromAddr := start + uint64(blocklen)*uint64(reversePos)
		prevAddr := toAddr - uint64(blocklen)

		mixBlock(mem, toAddr, prevAddr, fromAddr, st, blocklen, blocklen, multiplies, repetitions)
		foldCheckpoint(st, i, cps)

		toAddr += uint64(blocklen)
	}
}

// Unpredictable fills worker p's second-half region
// ([(2p+1)*numblocks*blocklen, 2(p+1)*numblocks*blocklen) in mem) with
// state-dependent addressing biased toward recent blocks by a cubic
// distance distribution, occasionally crossing into another worker's
// (already-completed) resistant-pass region. st continues the same
// running state the Resistant call for this worker and level left behind.
func Unpredictable(mem []uint32, p, parallelism, blocklen, numblocks, subBlocklen, multiplies, repetitions uint32, st []uint32, cps Checkpoints) {
	start := (2*uint64(p) + 1) * uint64(numblocks) * uint64(blocklen)

	toAddr := start
	for i := uint32(0); i < numblocks; i++ {
		v := uint64(st[0])
		v2 := (v * v) >> 32
		v3 := (v * v2) >> 32
		distance := uint32(((uint64(i) + uint64(numblocks) - 1) * v3) >> 32)

		var fromAddr uint64
		if distance < i {
			fromAddr = start + uint64(i-1-distance)*uint64(blocklen)
		} else {
			q := (p + i) % parallelism
			b := numblocks - 1 - (distance - i)
			fromAddr = (2*uint64(numblocks)*uint64(q) + uint64(b)) * uint64(blocklen)
		}
		prevAddr := toAddr - uint64(blocklen)

		mixBlock(mem, toAddr, prevAddr, fromAddr, st, blocklen, subBlocklen, multiplies, repetitions)
		foldCheckpoint(st, i, cps)

		toAddr += uint64(blocklen)
	}
}
