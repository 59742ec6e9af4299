package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// NumericSummary describes the distribution of one numeric column
type NumericSummary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Median     float64 `json:"median"`
	Q25        float64 `json:"q25"`
	Q75        float64 `json:"q75"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"`
	Outliers   int     `json:"outliers"`
	IsNormal   bool    `json:"is_normal"`
	NormalityP float64 `json:"normality_p"`
}

// Summarize computes summary statistics over data. NaN entries must be
// removed by the caller.
func Summarize(data []float64) (NumericSummary, error) {
	var s NumericSummary

	mean, err := stats.Mean(data)
	if err != nil {
		return s, err
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return s, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return s, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return s, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return s, err
	}

	// Quartiles for IQR-based outlier detection
	q25, err := quantile(data, 25)
	if err != nil {
		return s, err
	}

	q75, err := quantile(data, 75)
	if err != nil {
		return s, err
	}

	s.Mean = mean
	s.StdDev = stdDev
	s.Min = min
	s.Max = max
	s.Median = median
	s.Q25 = q25
	s.Q75 = q75
	s.Skewness = skewness(data, mean, stdDev)
	s.Kurtosis = kurtosis(data, mean, stdDev)
	s.Outliers = detectOutliers(data, q25, q75)
	s.IsNormal, s.NormalityP = testNormality(s.Skewness, s.Kurtosis, len(data))
	return s, nil
}

// quantile interpolates like stats.Percentile and falls back to nearest rank
// on samples too small to interpolate
func quantile(data []float64, percent float64) (float64, error) {
	q, err := stats.Percentile(data, percent)
	if err == nil {
		return q, nil
	}
	return stats.PercentileNearestRank(data, percent)
}

// skewness is the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis returns total (not excess) sample kurtosis
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 3
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}

	excess := sum/n - 3
	excess = excess*(n-1)/((n-2)*(n-3)) + 6/(n+1)
	return excess + 3
}

// testNormality is a moment-based approximation, not a Shapiro-Wilk test
func testNormality(skew, kurt float64, n int) (bool, float64) {
	if n < 3 {
		return false, 1.0
	}
	stat := math.Abs(skew) + math.Abs(kurt-3)/2
	chi := distuv.ChiSquared{K: 2}
	p := 1 - chi.CDF(stat*stat)
	return p > 0.05, p
}

// detectOutliers counts points outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
