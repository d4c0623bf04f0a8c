package interpolate

// Gap describes one uninterrupted run of missing samples in a channel.
type Gap struct {
	// Start and End are the first and last missing indices, inclusive.
	Start int
	End   int
	// Duration is the elapsed time covered by the run. For a leading or
	// interior run this spans from the first missing sample to the
	// recovery sample; a trailing run ends at the last timestamp.
	Duration float64
	Leading  bool
	Trailing bool
}

// FindGaps partitions a missing-sample mask into runs. Assumes mask and
// timestamps have equal length.
func FindGaps(missing []bool, timestamps []float64) []Gap {
	var gaps []Gap
	n := len(missing)
	for i := 0; i < n; {
		if !missing[i] {
			i++
			continue
		}
		g := Gap{Start: i, Leading: i == 0}
		for i < n && missing[i] {
			i++
		}
		g.End = i - 1
		g.Trailing = i == n
		if g.Trailing {
			g.Duration = timestamps[n-1] - timestamps[g.Start]
		} else {
			g.Duration = timestamps[i] - timestamps[g.Start]
		}
		gaps = append(gaps, g)
	}
	return gaps
}

// FillChannel fills the masked samples of one channel. Leading and
// trailing runs are filled by constant extension from the nearest valid
// sample; interior runs are interpolated with the chosen method between
// the valid anchors, evaluated at the channel's own timestamps. Valid
// samples are returned untouched. A channel with no valid sample at all
// is filled with zeros from a placeholder anchor at the first timestamp;
// the second return value reports that case.
func FillChannel(values, timestamps []float64, missing []bool, method Method) ([]float64, bool, error) {
	n := len(values)
	out := make([]float64, n)
	copy(out, values)

	anyMissing := false
	firstValid := -1
	for i, m := range missing {
		if m {
			anyMissing = true
		} else if firstValid < 0 {
			firstValid = i
		}
	}
	if !anyMissing {
		return out, false, nil
	}

	if firstValid < 0 {
		for i := range out {
			out[i] = 0
		}
		return out, true, nil
	}

	// Anchor vectors: every valid sample, plus constant extensions over
	// the leading and trailing runs so the interpolant never has to
	// extrapolate past its anchors.
	anchorTs := make([]float64, 0, n)
	anchorVs := make([]float64, 0, n)
	for i := 0; i < firstValid; i++ {
		anchorTs = append(anchorTs, timestamps[i])
		anchorVs = append(anchorVs, values[firstValid])
	}
	lastValid := firstValid
	for i := firstValid; i < n; i++ {
		if missing[i] {
			continue
		}
		anchorTs = append(anchorTs, timestamps[i])
		anchorVs = append(anchorVs, values[i])
		lastValid = i
	}
	for i := lastValid + 1; i < n; i++ {
		anchorTs = append(anchorTs, timestamps[i])
		anchorVs = append(anchorVs, values[lastValid])
	}

	filled, err := At(method, anchorTs, anchorVs, timestamps)
	if err != nil {
		return nil, false, err
	}
	for i := range out {
		if missing[i] {
			out[i] = filled[i]
		}
	}
	return out, false, nil
}
