package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// abcClasses fixes the stratum iteration order; assignment determinism
// depends on it.
var abcClasses = []string{"A", "B", "C"}

// StratifiedSplit partitions the catalog into control and treatment arms,
// stratified by ABC class so both arms carry the same revenue mix. Within
// each stratum the SKU ids are shuffled and split down the middle, the odd
// SKU landing in treatment, which keeps the per-stratum group sizes within
// one of each other.
//
// The partition is deterministic for a fixed rng state and input order.
func StratifiedSplit(skus []SKU, rng *rand.Rand) Assignment {
	strata := make(map[string][]string, len(abcClasses))
	for _, sku := range skus {
		strata[sku.ABCClass] = append(strata[sku.ABCClass], sku.ID)
	}

	var assignment Assignment
	for _, class := range abcClasses {
		ids := strata[class]
		rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		split := len(ids) / 2
		assignment.Control = append(assignment.Control, ids[:split]...)
		assignment.Treatment = append(assignment.Treatment, ids[split:]...)
	}

	logrus.Infof("Control: %d SKUs, Treatment: %d SKUs",
		len(assignment.Control), len(assignment.Treatment))
	return assignment
}
