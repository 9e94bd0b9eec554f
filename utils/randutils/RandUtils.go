// Package randutils derives independent, reproducible random streams from
// a single root seed
package randutils

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Seed derives the seed of the stream named label from a root seed. The
// same root and label always produce the same seed, and distinct labels
// produce unrelated seeds.
func Seed(root uint64, label string) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], root)

	d := xxhash.New()
	d.Write(buf[:])
	d.Write([]byte{0})
	d.WriteString(label)

	sum := d.Sum64()
	if sum == 0 {
		sum = 1
	}
	return sum
}

// NewSource returns a PCG source for the stream named label
func NewSource(root uint64, label string) rand.Source {
	seed := Seed(root, label)
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// New returns a generator for the stream named label
func New(root uint64, label string) *rand.Rand {
	return rand.New(NewSource(root, label))
}
