// Package kdf implements the garlic controller, grounded on
// tigerkdf-sse.c's TigerKDF: the outer loop that drives the memory-filling
// passes (internal/memfill) and the multiplication pacer (internal/pacer)
// across doubling memory sizes, folding each level's result back into the
// running hash. This is the parallel, normative variant; internal/refkdf
// provides a sequential reference.
package kdf

import (
	"sync"

	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
	"github.com/waywardgeek/tigerphs/internal/memfill"
	"github.com/waywardgeek/tigerphs/internal/pacer"
	"github.com/waywardgeek/tigerphs/internal/state"
)

// Params bundles everything the controller needs for one run. MemKiB is the
// base memory size in KiB: garlic level g uses MemKiB << g KiB in total.
// Blocklen and SubBlocklen are already in 32-bit words, not bytes.
type Params struct {
	HashSize           uint32
	StartGarlic        uint8
	StopGarlic         uint8
	MemKiB             uint32
	Blocklen           uint32
	SubBlocklen        uint32
	Parallelism        uint32
	MultipliesPerBlock uint32
	Repetitions        uint32
	SkipLastHash       bool
}

// Run hashes hash (modified in place, len(hash) == p.HashSize) across garlic
// levels StartGarlic..StopGarlic, allocating one memory array sized for
// StopGarlic and reusing its prefix for every smaller level.
func Run(hash []byte, p Params) {
	maxNumblocks := numblocksAtLevel(p.MemKiB, p.StopGarlic, p.Parallelism, p.Blocklen)
	memlen := 2 * uint64(p.Parallelism) * maxNumblocks * uint64(p.Blocklen)
	mem := make([]uint32, memlen)

	for g := p.StartGarlic; g <= p.StopGarlic; g++ {
		numblocks := numblocksAtLevel(p.MemKiB, g, p.Parallelism, p.Blocklen)
		runLevel(mem, hash, p, uint32(numblocks))

		combine(hash, mem, p.Blocklen, uint32(numblocks), p.Parallelism)

		if g < p.StopGarlic || !p.SkipLastHash {
			gBuf := [1]byte{g}
			digest.H(hash, hash, gBuf[:])
		}
	}
}

// numblocksAtLevel computes the per-worker-half block count for garlic
// level g: (MemKiB << g) KiB of total memory, split across two halves per
// worker. The shift happens before the division (unlike naively dividing
// first and shifting the truncated quotient) so small MemKiB bases still
// scale correctly at high garlic levels; it's floored at 1 so a memCost
// too small for the chosen blockSize/parallelism degrades to the smallest
// useful run instead of an empty memory array.
func numblocksAtLevel(memKiB uint32, g uint8, parallelism, blocklen uint32) uint64 {
	totalWords := (uint64(memKiB) * 256) << g
	n := totalWords / (2 * uint64(parallelism) * uint64(blocklen))
	if n == 0 {
		n = 1
	}
	return n
}

// runLevel performs one garlic level's work: spawn the pacer and the
// resistant-pass workers, join them, spawn the unpredictable-pass workers,
// join everything (step 4.5 a-e).
func runLevel(mem []uint32, hash []byte, p Params, numblocks uint32) {
	pc := pacer.New(2 * numblocks)
	var pacerWg sync.WaitGroup
	pacerWg.Add(1)
	go func() {
		defer pacerWg.Done()
		pc.Run(hash, p.Parallelism, p.MultipliesPerBlock, p.Repetitions, 2*numblocks)
	}()

	states := make([][state.Size]uint32, p.Parallelism)
	for worker := uint32(0); worker < p.Parallelism; worker++ {
		seedState(states[worker][:], hash, worker)
	}

	var workerWg sync.WaitGroup
	for worker := uint32(0); worker < p.Parallelism; worker++ {
		workerWg.Add(1)
		go func(pid uint32) {
			defer workerWg.Done()
			memfill.Resistant(mem, hash, pid, p.Blocklen, numblocks, p.MultipliesPerBlock, p.Repetitions, states[pid][:], pc)
		}(worker)
	}
	workerWg.Wait()

	for worker := uint32(0); worker < p.Parallelism; worker++ {
		workerWg.Add(1)
		go func(pid uint32) {
			defer workerWg.Done()
			memfill.Unpredictable(mem, pid, p.Parallelism, p.Blocklen, numblocks, p.SubBlocklen, p.MultipliesPerBlock, p.Repetitions, states[pid][:], pc)
		}(worker)
	}
	workerWg.Wait()
	pacerWg.Wait()
}

// seedState derives worker p's initial 8-word state from the running hash
// tweaked by p, the per-worker state each memory-filling pass mutates.
func seedState(st []uint32, hash []byte, p uint32) {
	var pBuf [4]byte
	endian.PutUint32(pBuf[:], p)
	var buf [state.Bytes]byte
	digest.H(buf[:], hash, pBuf[:])
	endian.DecodeVect(st, buf[:])
}

// combine folds the tail of each worker's region into hash and applies a
// final crypto-strength hash, matching tigerkdf-sse.c's combineHashes.
func combine(hash []byte, mem []uint32, blocklen, numblocks, parallelism uint32) {
	hashSize := uint32(len(hash))
	tailWords := hashSize / 4
	data := make([]byte, hashSize)

	for p := uint32(0); p < parallelism; p++ {
		pos := 2*uint64(p+1)*uint64(numblocks)*uint64(blocklen) - uint64(tailWords)
		endian.EncodeVect(data, mem[pos:pos+uint64(tailWords)])
		for i := range hash {
			hash[i] += data[i]
		}
	}
	digest.H(hash, hash, nil)
}
