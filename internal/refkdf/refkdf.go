// Package refkdf implements the sequential reference variant grounded on
// tigerkdf-ref.c: no pacer thread, no goroutines, a single worker loop
// scheduled in four resistant slices followed by four unpredictable
// slices, each folding its region's last block into a running 256-bit
// accumulator, and a PBKDF2 finalization in place of the parallel
// variant's final H. This is a distinct function from internal/kdf's
// normative parallel path, kept for implementations that want a
// single-threaded, auditable alternative.
package refkdf

import (
	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
	"github.com/waywardgeek/tigerphs/internal/mixer"
	"github.com/waywardgeek/tigerphs/internal/state"
)

// Params bundles everything the reference controller needs. Blocklen and
// SubBlocklen are in 32-bit words, not bytes.
type Params struct {
	StartGarlic uint8
	StopGarlic  uint8
	Blocklen    uint32
	SubBlocklen uint32
	Parallelism uint32
	Multiplies  uint32
	Repetitions uint32
}

// Run hashes hash (modified in place) sequentially across garlic levels
// StartGarlic..StopGarlic.
func Run(hash []byte, p Params) {
	maxBlocksPerThread := blocksPerThreadFor(p.StopGarlic, p.Parallelism)
	mem := make([]uint32, uint64(p.Blocklen)*uint64(maxBlocksPerThread)*uint64(p.Parallelism))

	for g := p.StartGarlic; g <= p.StopGarlic; g++ {
		blocksPerThread := blocksPerThreadFor(g, p.Parallelism)
		hashMemory(hash, mem, blocksPerThread, p)
	}
}

func blocksPerThreadFor(garlic uint8, parallelism uint32) uint32 {
	n := 8 * ((uint32(1) << garlic) / (8 * parallelism))
	if n == 0 {
		n = 8
	}
	return n
}

func bitReverse(x, n uint32) uint32 {
	var result uint32
	for i := uint32(0); i < n; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

// hashMemory performs one garlic level's work over the whole worker pool,
// single-threaded, folding every slice's tail into hash256, then finishing
// with PBKDF2 over the canonical encoding of hash256.
func hashMemory(hash []byte, mem []uint32, blocksPerThread uint32, p Params) {
	var hash256Buf [state.Bytes]byte
	digest.H(hash256Buf[:], hash, nil)
	var hash256 [state.Size]uint32
	endian.DecodeVect(hash256[:], hash256Buf[:])

	states := make([][state.Size]uint32, p.Parallelism)
	for worker := uint32(0); worker < p.Parallelism; worker++ {
		state.HashWithSalt(states[worker][:], hash256[:], worker)
	}

	half := blocksPerThread / 2
	sliceBlocks := half / 4
	if sliceBlocks == 0 {
		sliceBlocks = 1
	}

	for slice := uint32(0); slice < 4; slice++ {
		for worker := uint32(0); worker < p.Parallelism; worker++ {
			regionStart := uint64(worker) * uint64(blocksPerThread) * uint64(p.Blocklen)
			lastBlock := resistantSlice(mem, regionStart, states[worker][:], p.Blocklen, half, slice, sliceBlocks, p.Multiplies, p.Repetitions)
			foldLastBlock(hash256[:], mem, lastBlock, p.Blocklen)
		}
	}

	for slice := uint32(0); slice < 4; slice++ {
		for worker := uint32(0); worker < p.Parallelism; worker++ {
			regionStart := uint64(worker)*uint64(blocksPerThread)*uint64(p.Blocklen) + uint64(half)*uint64(p.Blocklen)
			lastBlock := unpredictableSlice(mem, regionStart, states[worker][:], p.Blocklen, p.SubBlocklen, half, slice, sliceBlocks, p.Multiplies, p.Repetitions)
			foldLastBlock(hash256[:], mem, lastBlock, p.Blocklen)
		}
	}

	var buf [state.Bytes]byte
	endian.EncodeVect(buf[:], hash256[:])
	digest.PBKDF2(hash, buf[:], nil)
}

// foldLastBlock adds the last 8 words (32 bytes) of the block starting at
// lastBlockStart, i.e. the slice's final 32 bytes, into hash256.
func foldLastBlock(hash256 []uint32, mem []uint32, lastBlockStart uint64, blocklen uint32) {
	tail := lastBlockStart + uint64(blocklen) - state.Size
	for i := 0; i < state.Size; i++ {
		hash256[i] += mem[tail+uint64(i)]
	}
}

// resistantSlice runs one quarter of the password-independent pass over a
// worker's own first-half region and returns the offset of the last block
// it wrote, for folding into the accumulator.
func resistantSlice(mem []uint32, regionStart uint64, st []uint32, blocklen, half, slice, sliceBlocks, multiplies, repetitions uint32) uint64 {
	begin := slice * sliceBlocks
	end := begin + sliceBlocks
	if slice == 3 {
		end = half
	}

	if begin == 0 {
		copy(mem[regionStart:regionStart+uint64(blocklen)], makeFirstBlock(st, blocklen))
		begin = 1
	}

	var mask, numBits uint32 = 1, 0
	toAddr := regionStart + uint64(begin)*uint64(blocklen)
	for i := begin; i < end; i++ {
		if i > 0 {
			for mask<<1 <= i {
				mask <<= 1
				numBits++
			}
		}
		reversePos := bitReverse(i, numBits)
		if reversePos+mask < i {
			reversePos += mask
		}
		fromAddr := regionStart + uint64(blocklen)*uint64(reversePos)
		prevAddr := toAddr - uint64(blocklen)

		mixer.Mix(mem, toAddr, prevAddr, fromAddr, st, blocklen, blocklen, multiplies, repetitions)
		toAddr += uint64(blocklen)
	}
	return toAddr - uint64(blocklen)
}

// makeFirstBlock derives the initial contents of a worker's first block
// from its seeded state, one 8-word group at a time.
func makeFirstBlock(st []uint32, blocklen uint32) []uint32 {
	out := make([]uint32, blocklen)
	for i := uint32(0); i*state.Size < blocklen; i++ {
		group := make([]uint32, state.Size)
		state.HashWithSalt(group, st, i)
		copy(out[i*state.Size:], group)
	}
	return out
}

// unpredictableSlice runs one quarter of the state-dependent pass over a
// worker's own second-half region and returns the offset of the last
// block it wrote.
func unpredictableSlice(mem []uint32, regionStart uint64, st []uint32, blocklen, subBlocklen, half, slice, sliceBlocks, multiplies, repetitions uint32) uint64 {
	begin := slice * sliceBlocks
	end := begin + sliceBlocks
	if slice == 3 {
		end = half
	}

	toAddr := regionStart + uint64(begin)*uint64(blocklen)
	for i := begin; i < end; i++ {
		v := uint64(st[0])
		v2 := (v * v) >> 32
		v3 := (v * v2) >> 32
		distance := uint32(((uint64(i) + uint64(half) - 1) * v3) >> 32)

		var fromAddr uint64
		if distance < i {
			fromAddr = regionStart + uint64(i-1-distance)*uint64(blocklen)
		} else {
			// Fall back into this worker's own already-completed first half.
			fromAddr = regionStart - uint64(half)*uint64(blocklen) + uint64(i%half)*uint64(blocklen)
		}
		prevAddr := toAddr - uint64(blocklen)

		mixer.Mix(mem, toAddr, prevAddr, fromAddr, st, blocklen, subBlocklen, multiplies, repetitions)
		toAddr += uint64(blocklen)
	}
	return toAddr - uint64(blocklen)
}
