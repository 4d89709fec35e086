package compute

import (
	"fmt"
	"math"
	"slices"
)

// BoxPlot is the five-number summary used to draw a boxplot.
type BoxPlot struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summary holds descriptive statistics of a one-dimensional sample.
// Variance and StdDev use the sample (N-1) denominator.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Box      BoxPlot `json:"box"`
}

// HistogramBin is one chart-ready histogram bucket covering [Lo, Hi).
// The last bin of a histogram also includes Hi.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Summarize computes mean, median, mode, sample variance, sample standard
// deviation and the boxplot quartiles of values.
//
// Mode is the lowest value among those occurring most often. An empty sample
// is a ValidationError; a single observation is a DomainError because the
// sample variance is undefined for N=1.
func Summarize(values []float64) (Summary, error) {
	if err := checkSample(values); err != nil {
		return Summary{}, err
	}
	if len(values) < 2 {
		return Summary{}, &DomainError{Op: "variance", Reason: "sample variance needs at least 2 observations, got 1"}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := float64(len(sorted))
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / n

	var sumSq float64
	for _, v := range sorted {
		d := v - mean
		sumSq += d * d
	}
	variance := sumSq / (n - 1)

	out := Summary{
		Count:    len(sorted),
		Mean:     mean,
		Median:   quantile(sorted, 0.5),
		Mode:     mode(sorted),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Box: BoxPlot{
			Min:    sorted[0],
			Q1:     quantile(sorted, 0.25),
			Median: quantile(sorted, 0.5),
			Q3:     quantile(sorted, 0.75),
			Max:    sorted[len(sorted)-1],
		},
	}
	if err := finite("summary", out.Mean, out.Variance, out.StdDev); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// Histogram buckets values into `bins` equal-width buckets spanning [min, max].
// When every value is equal a single bin holding all of them is returned.
func Histogram(values []float64, bins int) ([]HistogramBin, error) {
	if bins <= 0 {
		return nil, &ValidationError{Field: "bins", Value: float64(bins), Reason: fmt.Sprintf("%d must be positive", bins)}
	}
	if err := checkSample(values); err != nil {
		return nil, err
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		return []HistogramBin{{Lo: lo, Hi: hi, Count: len(values)}}, nil
	}

	out := make([]HistogramBin, bins)
	out[0].Lo = lo
	for i := 1; i < bins; i++ {
		f := float64(i) / float64(bins)
		out[i].Lo = lo*(1-f) + hi*f
		out[i-1].Hi = out[i].Lo
	}
	out[bins-1].Hi = hi

	// span overflows when lo and hi sit near opposite ends of the float64
	// range; halving both keeps the ratio finite.
	span := hi - lo
	for _, v := range values {
		var pos float64
		if math.IsInf(span, 0) {
			pos = float64(bins) * (v/2 - lo/2) / (hi/2 - lo/2)
		} else {
			pos = float64(bins) * (v - lo) / span
		}
		i := bins - 1
		if !math.IsNaN(pos) && pos < float64(bins) {
			i = max(int(pos), 0)
		}
		out[i].Count++
	}
	return out, nil
}

// checkSample rejects empty samples and non-finite observations.
func checkSample(values []float64) error {
	if len(values) == 0 {
		return &ValidationError{Field: "values", Reason: "at least one value is required"}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Field: fmt.Sprintf("values[%d]", i), Value: v, Reason: "value must be finite"}
		}
	}
	return nil
}

// quantile returns the q-quantile of sorted using linear interpolation
// between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// mode returns the most frequent value of sorted; on ties the lowest wins
// because runs are visited in ascending order and only a strictly longer run
// replaces the current best.
func mode(sorted []float64) float64 {
	best, bestRun := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestRun {
			best, bestRun = sorted[i], j-i
		}
		i = j
	}
	return best
}
