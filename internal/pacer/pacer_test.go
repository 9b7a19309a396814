package pacer

import (
	"testing"
	"time"
)

func TestRunPublishesAllCheckpoints(t *testing.T) {
	const numCheckpoints = 5
	p := New(numCheckpoints)
	done := make(chan struct{})
	go func() {
		p.Run([]byte("hash material for the pacer test"), 2, 8, 1, numCheckpoints)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not complete within 5s")
	}

	for i := uint32(0); i < numCheckpoints; i++ {
		cp := p.Await(i)
		if len(cp) != 8 {
			t.Fatalf("checkpoint %d has %d words, want 8", i, len(cp))
		}
	}
}

func TestCheckpointsDiffer(t *testing.T) {
	const numCheckpoints = 4
	p := New(numCheckpoints)
	p.Run([]byte("more hash material"), 1, 8, 1, numCheckpoints)

	cp0 := append([]uint32(nil), p.Await(0)...)
	cp1 := append([]uint32(nil), p.Await(1)...)
	same := true
	for i := range cp0 {
		if cp0[i] != cp1[i] {
			same = false
		}
	}
	if same {
		t.Fatal("consecutive checkpoints are identical")
	}
}

func TestRunDeterministic(t *testing.T) {
	const numCheckpoints = 3
	p1 := New(numCheckpoints)
	p2 := New(numCheckpoints)
	p1.Run([]byte("deterministic seed"), 2, 8, 2, numCheckpoints)
	p2.Run([]byte("deterministic seed"), 2, 8, 2, numCheckpoints)

	for i := uint32(0); i < numCheckpoints; i++ {
		a, b := p1.Await(i), p2.Await(i)
		for k := range a {
			if a[k] != b[k] {
				t.Fatalf("checkpoint %d word %d diverged: %#x vs %#x", i, k, a[k], b[k])
			}
		}
	}
}
