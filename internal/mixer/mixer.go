// Package mixer implements the block mixer: the inner SIMD-friendly kernel
// that both memory-filling passes (internal/memfill) invoke once per block.
// Grounded on tigerkdf-ref.c's hashBlocks, this is the hot loop the whole
// design centers on.
package mixer

import (
	"github.com/waywardgeek/tigerphs/internal/state"
)

// Mix writes blocklen words at mem[toAddr:] and updates st in place.
//
// prevAddr must equal toAddr-blocklen (the just-written previous block);
// fromAddr is the high-bandwidth source cursor. subBlocklen must divide
// blocklen and be a multiple of 8. multiplies is the per-group scalar
// multiplication-chain depth (0-8); repetitions repeats the whole pass
// over the source block that many times, rewriting the destination block
// each time. Mix only reads the source and previous blocks, so every
// repetition sees the same randVal sequence; st and the multiplication
// chain carry over from one repetition to the next.
func Mix(mem []uint32, toAddr, prevAddr, fromAddr uint64, st []uint32, blocklen, subBlocklen, multiplies, repetitions uint32) {
	numSubBlocks := blocklen / subBlocklen
	mask := numSubBlocks - 1

	var origState [state.Size]uint32
	copy(origState[:], st)

	v := uint32(1)
	for r := uint32(0); r < repetitions; r++ {
		f := fromAddr
		t := toAddr
		for i := uint32(0); i < numSubBlocks; i++ {
			randVal := mem[f]
			p := prevAddr + uint64(subBlocklen)*uint64(randVal&mask)

			for j := uint32(0); j < subBlocklen/8; j++ {
				for k := uint32(0); k < multiplies; k++ {
					v = (v * (randVal | 1)) ^ origState[k]
				}
				for k := 0; k < state.Size; k++ {
					mixed := state.Rotl7((st[k] + mem[p]) ^ mem[f])
					st[k] = mixed
					mem[t] = mixed
					p++
					f++
					t++
				}
			}
		}
	}

	state.HashWithSalt(st, st, v)
}
