// Package pacer implements the multiplication pacer, grounded on
// tigerkdf-sse.c's multHash thread: a background goroutine that performs a
// steady stream of serially-dependent 32-bit multiplications (cheap to
// verify, expensive to parallelize across many cores), periodically
// publishing a hashed checkpoint of its running state. The two
// memory-filling passes (internal/memfill) fold these checkpoints into their
// own state, which ties their completion time to the pacer's multiplication
// rate and defeats cheap, highly-parallel attacker hardware.
package pacer

import (
	"runtime"
	"sync/atomic"

	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
	"github.com/waywardgeek/tigerphs/internal/state"
)

// Pacer holds the shared checkpoint log for one garlic level. Run populates
// it; Await lets memory-filling workers block until a given checkpoint
// index has been published.
type Pacer struct {
	checkpoints []uint32 // 8 words per checkpoint, numCheckpoints*8 long
	completed   atomic.Uint32
}

// New allocates a pacer with room for numCheckpoints checkpoints.
func New(numCheckpoints uint32) *Pacer {
	return &Pacer{checkpoints: make([]uint32, uint64(numCheckpoints)*uint64(state.Size))}
}

// Await blocks until checkpoint i has been published and returns its 8
// words. The returned slice aliases the pacer's internal storage and must
// not be retained past the call that reads it.
func (p *Pacer) Await(i uint32) []uint32 {
	for p.completed.Load() <= i {
		runtime.Gosched()
	}
	return p.checkpoints[uint64(i)*uint64(state.Size) : uint64(i+1)*uint64(state.Size)]
}

// Run performs numCheckpoints rounds of serially-dependent multiplications,
// hashing and publishing a checkpoint after every round. Each round runs
// the 8-multiplication unrolled chain ceil(multipliesPerBlock*repetitions/8)
// times, so its multiplication count is multipliesPerBlock*repetitions
// rounded up to a multiple of 8. hash seeds the pacer's own state,
// tweaked by parallelism so it never collides with a worker's threadKey
// derivation. Run is meant to be called in its own goroutine; it returns
// once all numCheckpoints checkpoints have been published.
func (p *Pacer) Run(hash []byte, parallelism, multipliesPerBlock, repetitions, numCheckpoints uint32) {
	var pBuf [4]byte
	endian.PutUint32(pBuf[:], parallelism)
	var threadKey [state.Bytes]byte
	digest.H(threadKey[:], hash, pBuf[:])

	var st [state.Size]uint32
	endian.DecodeVect(st[:], threadKey[:])

	roundMultiplies := multipliesPerBlock * repetitions
	for i := uint32(0); i < numCheckpoints; i++ {
		for j := uint32(0); j < roundMultiplies; j += 8 {
			st[0] = (st[0] * (st[1] | 1)) ^ (st[2] >> 1)
			st[1] = (st[1] * (st[2] | 1)) ^ (st[3] >> 1)
			st[2] = (st[2] * (st[3] | 1)) ^ (st[4] >> 1)
			st[3] = (st[3] * (st[4] | 1)) ^ (st[5] >> 1)
			st[4] = (st[4] * (st[5] | 1)) ^ (st[6] >> 1)
			st[5] = (st[5] * (st[6] | 1)) ^ (st[7] >> 1)
			st[6] = (st[6] * (st[7] | 1)) ^ (st[0] >> 1)
			st[7] = (st[7] * (st[0] | 1)) ^ (st[1] >> 1)
		}
		state.HashState(st[:])
		copy(p.checkpoints[uint64(i)*uint64(state.Size):], st[:])
		p.completed.Store(i + 1)
	}
}
