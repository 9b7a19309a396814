// Package tigerphs implements a memory-hard password hashing function of
// the TigerKDF/TwoCats family: a keyed, salted key-derivation primitive
// whose cost is tunable along three independent axes (memory footprint,
// wall-time repetitions, and per-block multiplication depth), hardened
// against cache-timing side channels, time-memory trade-offs, and
// GPU/ASIC attackers by pairing a bandwidth-bound memory pass with a
// latency-bound multiplication "pacer" thread.
//
// HashPassword and HashPasswordFull cover the common cases;
// HashPasswordExtended exposes every tunable for advanced callers.
// UpdatePassword re-hashes an existing digest to a higher memory cost
// without needing the original password. ClientHashPassword and
// ServerHashPassword split the final hardening step between an untrusted
// client and a trusted server.
package tigerphs

import (
	"github.com/waywardgeek/tigerphs/internal/digest"
	"github.com/waywardgeek/tigerphs/internal/endian"
	"github.com/waywardgeek/tigerphs/internal/kdf"
	"github.com/waywardgeek/tigerphs/internal/refkdf"
	"github.com/waywardgeek/tigerphs/internal/state"
)

// initialHash computes the garlic controller's seed: PBKDF2 over
// password‖passwordSize and salt‖saltSize, with data‖dataSize folded in as
// additional associated input after the salt (sizes are big-endian 32-bit
// words). clearPassword/clearData zero the caller's buffers immediately
// after.
func initialHash(hashSize uint32, password, salt, data []byte, clearPassword, clearData bool) []byte {
	var sizeBuf [4]byte
	pw := make([]byte, 0, len(password)+4)
	pw = append(pw, password...)
	endian.PutUint32(sizeBuf[:], uint32(len(password)))
	pw = append(pw, sizeBuf[:]...)

	combinedSalt := make([]byte, 0, len(salt)+len(data)+8)
	combinedSalt = append(combinedSalt, salt...)
	endian.PutUint32(sizeBuf[:], uint32(len(salt)))
	combinedSalt = append(combinedSalt, sizeBuf[:]...)
	combinedSalt = append(combinedSalt, data...)
	endian.PutUint32(sizeBuf[:], uint32(len(data)))
	combinedSalt = append(combinedSalt, sizeBuf[:]...)

	hash := make([]byte, hashSize)
	digest.PBKDF2(hash, pw, combinedSalt)
	state.SecureZero(pw)

	if clearPassword {
		state.SecureZero(password)
	}
	if clearData {
		state.SecureZero(data)
	}
	return hash
}

func controllerParams(p params) kdf.Params {
	return kdf.Params{
		HashSize:           p.hashSize,
		StartGarlic:        p.startMemCost,
		StopGarlic:         p.stopMemCost,
		MemKiB:             1,
		Blocklen:           p.blockSize / 4,
		SubBlocklen:        p.subBlockSize / 4,
		Parallelism:        p.parallelism,
		MultipliesPerBlock: p.multiplies,
		Repetitions:        p.repetitions,
		SkipLastHash:       false,
	}
}

// HashPassword produces a fixed 32-byte digest with default blockSize,
// subBlockSize, timeCost, and parallelism: the common case. As in
// HashPasswordFull, multiplies is derived from timeCost, so the default
// timeCost of 0 gives 0 multiplies rather than DefaultMultiplies.
func HashPassword(hash []byte, password, salt []byte, memCost uint8, clearPassword bool) bool {
	return HashPasswordFull(hash, DefaultHashSize, password, salt, memCost, DefaultTimeCost, DefaultParallelism, clearPassword)
}

// HashPasswordFull exposes hashSize, timeCost, and parallelism, with
// default blockSize and subBlockSize.
func HashPasswordFull(hash []byte, hashSize uint32, password, salt []byte, memCost uint8, timeCost uint8, parallelism uint32, clearPassword bool) bool {
	return HashPasswordExtended(hash, hashSize, password, salt, nil, memCost, memCost, timeCost, resolveMultiplies(timeCost),
		parallelism, DefaultBlockSize, DefaultSubBlockSize, clearPassword, false)
}

// HashPasswordExtended is the full-control entry point: independent
// startMemCost/stopMemCost for incremental strengthening, an explicit
// multiplies depth (repetitions is still derived from timeCost), and
// caller-chosen blockSize/subBlockSize.
func HashPasswordExtended(hash []byte, hashSize uint32, password, salt, data []byte, startMemCost, stopMemCost, timeCost uint8,
	multiplies uint32, parallelism uint32, blockSize, subBlockSize uint32, clearPassword, clearData bool) bool {

	return hashPasswordExtended(hash, hashSize, password, salt, data, startMemCost, stopMemCost, timeCost, multiplies,
		parallelism, blockSize, subBlockSize, clearPassword, clearData, false)
}

// ClientHashPassword is HashPasswordExtended with the last hardening H
// skipped, so an untrusted client can do the expensive work without ever
// holding the fully-hardened server-side digest.
func ClientHashPassword(hash []byte, hashSize uint32, password, salt, data []byte, startMemCost, stopMemCost, timeCost uint8,
	multiplies uint32, parallelism uint32, blockSize, subBlockSize uint32, clearPassword, clearData bool) bool {

	return hashPasswordExtended(hash, hashSize, password, salt, data, startMemCost, stopMemCost, timeCost, multiplies,
		parallelism, blockSize, subBlockSize, clearPassword, clearData, true)
}

// ServerHashPassword completes a ClientHashPassword digest with the single
// final H the client skipped. The result equals
// HashPasswordExtended with the same parameters.
func ServerHashPassword(hash []byte, hashSize uint32) bool {
	if hashSize < minHashSize || hashSize > maxHashSize || hashSize%4 != 0 || uint32(len(hash)) != hashSize {
		return false
	}
	digest.H(hash, hash, nil)
	return true
}

func hashPasswordExtended(hash []byte, hashSize uint32, password, salt, data []byte, startMemCost, stopMemCost, timeCost uint8,
	multiplies uint32, parallelism uint32, blockSize, subBlockSize uint32, clearPassword, clearData, skipLastHash bool) bool {

	if uint32(len(hash)) != hashSize {
		return false
	}
	p := params{
		hashSize:     hashSize,
		startMemCost: startMemCost,
		stopMemCost:  stopMemCost,
		timeCost:     timeCost,
		multiplies:   multiplies,
		repetitions:  timeCostToRepetitions(timeCost),
		parallelism:  parallelism,
		blockSize:    blockSize,
		subBlockSize: subBlockSize,
	}
	if err := p.validate(); err != nil {
		return false
	}

	seed := initialHash(hashSize, password, salt, data, clearPassword, clearData)

	cp := controllerParams(p)
	cp.SkipLastHash = skipLastHash
	kdf.Run(seed, cp)

	copy(hash, seed)
	return true
}

// UpdatePassword re-hashes an existing digest to a higher memory cost,
// without access to the original password. hash is both input and output.
func UpdatePassword(hash []byte, hashSize uint32, oldMemCost, newMemCost uint8, timeCost uint8, multiplies uint32,
	parallelism uint32, blockSize, subBlockSize uint32) bool {

	if uint32(len(hash)) != hashSize || oldMemCost >= newMemCost {
		return false
	}
	p := params{
		hashSize:     hashSize,
		startMemCost: oldMemCost + 1,
		stopMemCost:  newMemCost,
		timeCost:     timeCost,
		multiplies:   multiplies,
		repetitions:  timeCostToRepetitions(timeCost),
		parallelism:  parallelism,
		blockSize:    blockSize,
		subBlockSize: subBlockSize,
	}
	if err := p.validate(); err != nil {
		return false
	}

	seed := append([]byte(nil), hash...)
	cp := controllerParams(p)
	kdf.Run(seed, cp)

	copy(hash, seed)
	return true
}

// PHS is the PHC-competition-standard entry point: out/outlen, in/inlen,
// salt/saltlen, t_cost, m_cost. Returns 0 on success, -1 on failure,
// matching the convention PHC candidates share.
func PHS(out []byte, outlen uint32, in []byte, inlen uint32, salt []byte, saltlen uint32, tCost, mCost uint32) int {
	if uint32(len(out)) < outlen || uint32(len(in)) < inlen || uint32(len(salt)) < saltlen {
		return -1
	}
	if mCost > maxCost || tCost > maxCost {
		return -1
	}
	hash := make([]byte, outlen)
	ok := HashPasswordFull(hash, outlen, in[:inlen], salt[:saltlen], uint8(mCost), uint8(tCost), DefaultParallelism, false)
	if !ok {
		return -1
	}
	copy(out, hash)
	return 0
}

// HashPasswordReference runs the sequential reference variant
// (internal/refkdf) instead of the normative parallel controller. It
// exists for conformance comparison against the `ref` C implementation
// this design is grounded on; no normative entry point above ever calls it.
func HashPasswordReference(hash []byte, hashSize uint32, password, salt, data []byte, startMemCost, stopMemCost, timeCost uint8,
	multiplies uint32, parallelism uint32, blockSize, subBlockSize uint32, clearPassword, clearData bool) bool {

	if uint32(len(hash)) != hashSize {
		return false
	}
	p := params{
		hashSize:     hashSize,
		startMemCost: startMemCost,
		stopMemCost:  stopMemCost,
		timeCost:     timeCost,
		multiplies:   multiplies,
		repetitions:  timeCostToRepetitions(timeCost),
		parallelism:  parallelism,
		blockSize:    blockSize,
		subBlockSize: subBlockSize,
	}
	if err := p.validate(); err != nil {
		return false
	}

	seed := initialHash(hashSize, password, salt, data, clearPassword, clearData)

	refkdf.Run(seed, refkdf.Params{
		StartGarlic: p.startMemCost,
		StopGarlic:  p.stopMemCost,
		Blocklen:    p.blockSize / 4,
		SubBlocklen: p.subBlockSize / 4,
		Parallelism: p.parallelism,
		Multiplies:  p.multiplies,
		Repetitions: p.repetitions,
	})

	copy(hash, seed)
	return true
}
