package stats

import (
	"github.com/rcrowley/go-metrics"
	"math"
)

const (
	// reservoirSize matches the go-metrics default for a 99.9% / 5% margin
	reservoirSize = 1028
	// decayAlpha biases the reservoir towards the last five minutes
	decayAlpha = 0.015
)

// NewSizeHistogram creates a histogram for payload sizes
func NewSizeHistogram() metrics.Histogram {
	return metrics.NewHistogram(metrics.NewExpDecaySample(reservoirSize, decayAlpha))
}

// NewSpreadHistogram creates a histogram that keeps the first reservoirSize
// samples unchanged
func NewSpreadHistogram() metrics.Histogram {
	return metrics.NewHistogram(metrics.NewUniformSample(reservoirSize))
}

// Balance rates how evenly the samples of h are spread on a scale from 0 (one
// sample carries everything) to 1 (all samples equal). It mixes the
// coefficient of variation and the min/max ratio in equal parts.
func Balance(h metrics.Histogram) float64 {
	s := h.Snapshot()
	if s.Count() == 0 {
		return 0
	}

	var cv float64
	if mean := s.Mean(); mean > 0 {
		cv = s.StdDev() / mean
	}

	ratio := 1.0
	if s.Max() > 0 {
		ratio = float64(s.Min()) / float64(s.Max())
	}

	return (1.0-math.Min(1.0, cv))*0.5 + ratio*0.5
}
