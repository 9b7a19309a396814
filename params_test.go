package tigerphs

import "testing"

func validParams() params {
	return params{
		hashSize:     32,
		startMemCost: 0,
		stopMemCost:  4,
		timeCost:     0,
		multiplies:   3,
		repetitions:  1,
		parallelism:  2,
		blockSize:    256,
		subBlockSize: 64,
	}
}

func TestValidParamsPass(t *testing.T) {
	if err := validParams().validate(); err != nil {
		t.Fatalf("validate() on valid params returned %v", err)
	}
}

func TestHashSizeBounds(t *testing.T) {
	p := validParams()
	p.hashSize = 0
	if err := p.validate(); err == nil {
		t.Fatal("hashSize=0 should be rejected")
	}

	p = validParams()
	p.hashSize = 3 // not a multiple of 4
	if err := p.validate(); err == nil {
		t.Fatal("hashSize not a multiple of 4 should be rejected")
	}

	p = validParams()
	p.hashSize = p.blockSize + 4
	if err := p.validate(); err == nil {
		t.Fatal("hashSize exceeding blockSize should be rejected")
	}
}

func TestMemCostBounds(t *testing.T) {
	p := validParams()
	p.startMemCost = 5
	p.stopMemCost = 4
	if err := p.validate(); err == nil {
		t.Fatal("startMemCost > stopMemCost should be rejected")
	}

	p = validParams()
	p.stopMemCost = 31
	if err := p.validate(); err == nil {
		t.Fatal("stopMemCost > 30 should be rejected")
	}
}

func TestParallelismBounds(t *testing.T) {
	p := validParams()
	p.parallelism = 0
	if err := p.validate(); err == nil {
		t.Fatal("parallelism=0 should be rejected")
	}

	p = validParams()
	p.parallelism = 256
	if err := p.validate(); err == nil {
		t.Fatal("parallelism=256 should be rejected")
	}
}

func TestBlockSizeMustBePowerOfTwo(t *testing.T) {
	p := validParams()
	p.blockSize = 100
	if err := p.validate(); err == nil {
		t.Fatal("non-power-of-two blockSize should be rejected")
	}
}

func TestSubBlockSizeCannotExceedBlockSize(t *testing.T) {
	p := validParams()
	p.subBlockSize = p.blockSize * 2
	if err := p.validate(); err == nil {
		t.Fatal("subBlockSize exceeding blockSize should be rejected")
	}
}

func TestMultipliesBounds(t *testing.T) {
	p := validParams()
	p.multiplies = 9
	if err := p.validate(); err == nil {
		t.Fatal("multiplies=9 should be rejected")
	}
}

func TestTimeCostToRepetitions(t *testing.T) {
	if got := timeCostToRepetitions(0); got != 1 {
		t.Fatalf("timeCostToRepetitions(0) = %d, want 1", got)
	}
	if got := timeCostToRepetitions(7); got != 1 {
		t.Fatalf("timeCostToRepetitions(7) = %d, want 1", got)
	}
	if got := timeCostToRepetitions(8); got != 1 {
		t.Fatalf("timeCostToRepetitions(8) = %d, want 1", got)
	}
	if got := timeCostToRepetitions(9); got != 2 {
		t.Fatalf("timeCostToRepetitions(9) = %d, want 2", got)
	}
}

func TestResolveMultiplies(t *testing.T) {
	if got := resolveMultiplies(3); got != 3 {
		t.Fatalf("resolveMultiplies(3) = %d, want 3", got)
	}
	if got := resolveMultiplies(10); got != 8 {
		t.Fatalf("resolveMultiplies(10) = %d, want 8", got)
	}
}
