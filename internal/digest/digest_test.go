package digest

import "testing"

func TestHDeterministic(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	H(a, []byte("input"), []byte{1, 2, 3, 4})
	H(b, []byte("input"), []byte{1, 2, 3, 4})
	if string(a) != string(b) {
		t.Fatal("H is not deterministic for identical inputs")
	}
}

func TestHSaltChangesOutput(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	H(a, []byte("input"), []byte{1, 2, 3, 4})
	H(b, []byte("input"), []byte{1, 2, 3, 5})
	if string(a) == string(b) {
		t.Fatal("H output did not change with a different salt tweak")
	}
}

func TestHLargeOutputExpands(t *testing.T) {
	out := make([]byte, 200) // more than one 64-byte blake2b block
	H(out, []byte("input"), nil)

	allZero := true
	for _, b := range out {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("H produced an all-zero large output")
	}

	// Each 64-byte chunk must differ from its neighbors (different counter).
	if string(out[0:64]) == string(out[64:128]) {
		t.Fatal("H repeated the same block across counter values")
	}
}

func TestPBKDF2Deterministic(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	PBKDF2(a, []byte("password"), []byte("salt"))
	PBKDF2(b, []byte("password"), []byte("salt"))
	if string(a) != string(b) {
		t.Fatal("PBKDF2 is not deterministic for identical inputs")
	}
}

func TestPBKDF2SaltChangesOutput(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	PBKDF2(a, []byte("password"), []byte("salt1"))
	PBKDF2(b, []byte("password"), []byte("salt2"))
	if string(a) == string(b) {
		t.Fatal("PBKDF2 output did not change with a different salt")
	}
}
