package mixer

import "testing"

func newTestMem(blocklen uint32, blocks int) []uint32 {
	mem := make([]uint32, uint64(blocklen)*uint64(blocks))
	for i := range mem {
		mem[i] = uint32(i*2654435761 + 1)
	}
	return mem
}

func TestMixWritesDestinationBlock(t *testing.T) {
	const blocklen = 32
	mem := newTestMem(blocklen, 3)
	st := []uint32{1, 2, 3, 4, 5, 6, 7, 8}

	toAddr := uint64(2 * blocklen)
	prevAddr := toAddr - blocklen
	fromAddr := uint64(0)

	before := append([]uint32(nil), mem[toAddr:toAddr+blocklen]...)
	Mix(mem, toAddr, prevAddr, fromAddr, st, blocklen, blocklen, 3, 1)
	after := mem[toAddr : toAddr+blocklen]

	same := true
	for i := range before {
		if before[i] != after[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("Mix did not write the destination block")
	}
}

func TestMixDeterministic(t *testing.T) {
	const blocklen = 32
	mem1 := newTestMem(blocklen, 3)
	mem2 := newTestMem(blocklen, 3)
	st1 := []uint32{1, 2, 3, 4, 5, 6, 7, 8}
	st2 := []uint32{1, 2, 3, 4, 5, 6, 7, 8}

	Mix(mem1, 2*blocklen, blocklen, 0, st1, blocklen, blocklen, 3, 1)
	Mix(mem2, 2*blocklen, blocklen, 0, st2, blocklen, blocklen, 3, 1)

	for i := range st1 {
		if st1[i] != st2[i] {
			t.Fatalf("state word %d diverged: %#x vs %#x", i, st1[i], st2[i])
		}
	}
	for i := range mem1 {
		if mem1[i] != mem2[i] {
			t.Fatalf("mem word %d diverged: %#x vs %#x", i, mem1[i], mem2[i])
		}
	}
}

func TestMixSubBlockScatterStaysWithinPreviousBlock(t *testing.T) {
	// With subBlocklen < blocklen, every read through p must land inside
	// [prevAddr, prevAddr+blocklen), never touching fromAddr's block or
	// beyond the destination.
	const blocklen = 64
	const subBlocklen = 16
	mem := newTestMem(blocklen, 4)

	// Run a full pass (which must not panic / index out of range) and check
	// that changing bytes strictly outside [prevAddr, prevAddr+blocklen)
	// (other than fromAddr's source block) leaves the output unchanged.
	toAddr := uint64(3 * blocklen)
	prevAddr := toAddr - blocklen
	fromAddr := uint64(0)

	mem2 := append([]uint32(nil), mem...)
	st := []uint32{1, 1, 1, 1, 1, 1, 1, 1}
	Mix(mem, toAddr, prevAddr, fromAddr, append([]uint32(nil), st...), blocklen, subBlocklen, 2, 1)

	// Mutate the untouched block 1 (fromAddr's block is 0, prevAddr's block
	// is 2, destination is block 3) and confirm the result is identical.
	for i := blocklen; i < 2*blocklen; i++ {
		mem2[i] ^= 0xffffffff
	}
	st2 := []uint32{1, 1, 1, 1, 1, 1, 1, 1}
	Mix(mem2, toAddr, prevAddr, fromAddr, st2, blocklen, subBlocklen, 2, 1)

	for i := toAddr; i < toAddr+blocklen; i++ {
		if mem[i] != mem2[i] {
			t.Fatalf("output at %d changed after mutating an untouched block", i)
		}
	}
}

func TestMixZeroMultipliesStillUpdatesState(t *testing.T) {
	const blocklen = 32
	mem := newTestMem(blocklen, 3)
	st := []uint32{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]uint32(nil), st...)

	Mix(mem, 2*blocklen, blocklen, 0, st, blocklen, blocklen, 0, 1)

	same := true
	for i := range st {
		if st[i] != orig[i] {
			same = false
		}
	}
	if same {
		t.Fatal("Mix with multiplies=0 left state unchanged")
	}
}
