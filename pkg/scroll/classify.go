package scroll

import "math"

// Classification is the classifier output for one viewport report
type Classification struct {
	AtBottom bool
	NearTop  bool
}

// Classify reports whether metrics are within BottomEpsilon of the bottom
// and under TopThreshold from the top. Negative or non-finite values are
// treated as zero; content shorter than the viewport is at bottom.
func Classify(m ViewportMetrics, t Thresholds) Classification {
	offset := sanitize(m.ScrollOffset)
	visible := sanitize(m.VisibleHeight)
	content := sanitize(m.ContentHeight)

	return Classification{
		AtBottom: offset+visible >= content-sanitize(t.BottomEpsilon),
		NearTop:  offset < sanitize(t.TopThreshold),
	}
}

// Clamp returns metrics with every field sanitized
func Clamp(m ViewportMetrics) ViewportMetrics {
	return ViewportMetrics{
		ScrollOffset:  sanitize(m.ScrollOffset),
		VisibleHeight: sanitize(m.VisibleHeight),
		ContentHeight: sanitize(m.ContentHeight),
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
