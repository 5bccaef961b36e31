package stats

import (
	"errors"
	"math"
	"sort"
)

var ErrKendallLenMismatch = errors.New("kendall tau inputs have different lengths")

// KendallTau computes the tau-b rank correlation in O(n log n) following Knight's merge sort
// algorithm. Ties in either variable are accounted for in the denominator.
func KendallTau(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrKendallLenMismatch
	}
	n := len(x)
	if n < 2 {
		return 0, ErrNoSamples
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if x[idx[a]] != x[idx[b]] {
			return x[idx[a]] < x[idx[b]]
		}
		return y[idx[a]] < y[idx[b]]
	})

	// ties in x and joint ties in (x, y)
	var tiesX, tiesXY int64
	runX, runXY := int64(1), int64(1)
	for i := 1; i < n; i++ {
		cx, px := x[idx[i]], x[idx[i-1]]
		if cx == px {
			runX++
			if y[idx[i]] == y[idx[i-1]] {
				runXY++
			} else {
				tiesXY += runXY * (runXY - 1) / 2
				runXY = 1
			}
			continue
		}
		tiesX += runX * (runX - 1) / 2
		tiesXY += runXY * (runXY - 1) / 2
		runX, runXY = 1, 1
	}
	tiesX += runX * (runX - 1) / 2
	tiesXY += runXY * (runXY - 1) / 2

	ys := make([]float64, n)
	for i, j := range idx {
		ys[i] = y[j]
	}
	swaps := mergeCountSwaps(ys, make([]float64, n))

	// ys is now sorted, count ties in y
	var tiesY int64
	runY := int64(1)
	for i := 1; i < n; i++ {
		if ys[i] == ys[i-1] {
			runY++
			continue
		}
		tiesY += runY * (runY - 1) / 2
		runY = 1
	}
	tiesY += runY * (runY - 1) / 2

	n0 := int64(n) * int64(n-1) / 2
	denom := math.Sqrt(float64(n0-tiesX) * float64(n0-tiesY))
	if denom == 0 {
		return 0, ErrZeroVariance
	}
	num := float64(n0-tiesX-tiesY+tiesXY) - 2*float64(swaps)
	return num / denom, nil
}

// mergeCountSwaps sorts s in place and returns the number of inversions. Equal values are not
// counted as inversions.
func mergeCountSwaps(s, buf []float64) int64 {
	n := len(s)
	if n < 2 {
		return 0
	}
	mid := n / 2
	swaps := mergeCountSwaps(s[:mid], buf[:mid]) + mergeCountSwaps(s[mid:], buf[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < n {
		if s[i] <= s[j] {
			buf[k] = s[i]
			i++
		} else {
			buf[k] = s[j]
			swaps += int64(mid - i)
			j++
		}
		k++
	}
	k += copy(buf[k:], s[i:mid])
	copy(buf[k:], s[j:n])
	copy(s, buf[:n])
	return swaps
}
