package analytics

import (
	"math"

	"PerpParity/internal/domain/models"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStddev computes the sample standard deviation (divisor n-1).
// Returns 0 for fewer than two values.
func sampleStddev(xs []float64, mu float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// pearson computes the Pearson correlation coefficient of two equally-sized
// samples. The result is undefined for fewer than two points or when either
// sample has zero variance.
func pearson(xs, ys []float64) models.Stat {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return models.UndefinedStat()
	}
	mx := mean(xs)
	my := mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return models.UndefinedStat()
	}
	return models.DefinedStat(sxy / math.Sqrt(sxx*syy))
}

// critical95 holds two-tailed 95% critical values of the t-distribution by
// degrees of freedom.
var critical95 = map[int]float64{
	1:  12.706,
	2:  4.303,
	3:  3.182,
	4:  2.776,
	5:  2.571,
	6:  2.447,
	7:  2.365,
	8:  2.306,
	9:  2.262,
	10: 2.228,
	15: 2.131,
	20: 2.086,
	30: 2.042,
}

// CriticalValue95 returns the two-tailed 95% t critical value for a rolling
// window of the given size (df = windowSize-1). The second return is false
// when no tabulated value exists; callers then supply their own threshold.
func CriticalValue95(windowSize int) (float64, bool) {
	v, ok := critical95[windowSize-1]
	return v, ok
}
