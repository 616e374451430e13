package genotype

import (
	"crypto/sha1"
	"encoding/hex"
)

// Fingerprint is a stable content hash of the genome text, used to count
// distinct genomes in a population.
func Fingerprint(g Genome) string {
	sum := sha1.Sum([]byte(g.String()))
	return hex.EncodeToString(sum[:])
}
