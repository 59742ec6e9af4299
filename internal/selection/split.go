package selection

import (
	"fmt"
	"math"
	"math/rand"

	"careerpath/domain/core"
)

// Split shuffles row indices with a seeded source and cuts off the test
// partition. The test size is ceil(n*ratio), bounded so both partitions
// keep at least one row.
func Split(n int, ratio float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 rows to split, have %d", core.ErrInsufficientData, n)
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("selection: test ratio %v outside (0, 1)", ratio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Ceil(float64(n) * ratio))
	nTest = min(max(nTest, 1), n-1)

	test = perm[:nTest]
	train = perm[nTest:]
	return train, test, nil
}

func rows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for k, i := range idx {
		out[k] = X[i]
	}
	return out
}

func labels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}

// project restricts every row to the given column positions, in that order
func project(X [][]float64, positions []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(positions))
		for k, p := range positions {
			r[k] = row[p]
		}
		out[i] = r
	}
	return out
}
