package pipeline

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"lophi/pkg/frame"
)

// CorrelatedPair is one pair of features whose absolute weighted Pearson
// correlation exceeded the threshold.
type CorrelatedPair struct {
	Feature1    string
	Feature2    string
	Correlation float64
}

type floatColumn struct {
	name   string
	values []float64
	valid  []bool
}

// CorrelatedPairs computes the weighted Pearson correlation of every
// unordered pair of float columns and returns the pairs whose absolute
// correlation exceeds the threshold, strongest first. weights may be nil
// for uniform weighting; rows with a null in either column are skipped.
func CorrelatedPairs(series []*frame.Series, threshold float64, weights []float64) []CorrelatedPair {
	var cols []floatColumn
	for _, s := range series {
		if vals, valid, ok := s.Floats(); ok {
			cols = append(cols, floatColumn{name: s.Name(), values: vals, valid: valid})
		}
	}
	if len(cols) < 2 {
		return nil
	}

	type pair struct{ i, j int }
	pairs := make(chan pair)
	results := make([]CorrelatedPair, 0)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range pairs {
				r, ok := weightedPearson(cols[p.i], cols[p.j], weights)
				if !ok || math.IsNaN(r) || math.Abs(r) <= threshold {
					continue
				}
				mu.Lock()
				results = append(results, CorrelatedPair{
					Feature1:    cols[p.i].name,
					Feature2:    cols[p.j].name,
					Correlation: r,
				})
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			pairs <- pair{i, j}
		}
	}
	close(pairs)
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		return math.Abs(results[a].Correlation) > math.Abs(results[b].Correlation)
	})
	return results
}

// weightedPearson runs a single-pass weighted Welford update over the
// rows where both columns are valid. Population variance is used, the
// standard choice for weighted correlation.
func weightedPearson(a, b floatColumn, weights []float64) (float64, bool) {
	n := len(a.values)
	if n == 0 || n != len(b.values) {
		return 0, false
	}
	if weights != nil && len(weights) != n {
		return 0, false
	}

	var sumW, meanX, meanY, varX, varY, covXY float64
	for i := 0; i < n; i++ {
		if !a.valid[i] || !b.valid[i] {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
			if w <= 0 {
				continue
			}
		}
		x, y := a.values[i], b.values[i]
		sumW += w
		dx := x - meanX
		dy := y - meanY
		meanX += (w / sumW) * dx
		meanY += (w / sumW) * dy
		varX += w * dx * (x - meanX)
		varY += w * dy * (y - meanY)
		covXY += w * dx * (y - meanY)
	}
	if sumW <= 0 {
		return 0, false
	}
	stdX := math.Sqrt(varX / sumW)
	stdY := math.Sqrt(varY / sumW)
	if stdX == 0 || stdY == 0 {
		return 0, false
	}
	return covXY / (sumW * stdX * stdY), true
}

// DropCandidates resolves correlated pairs to a drop list. The target
// column is never dropped; between two non-target features the one that
// appears in more pairs goes first. Each feature is resolved once.
func DropCandidates(pairs []CorrelatedPair, target string) []string {
	frequency := make(map[string]int)
	for _, p := range pairs {
		frequency[p.Feature1]++
		frequency[p.Feature2]++
	}

	var toDrop []string
	resolved := make(map[string]bool)
	for _, p := range pairs {
		if resolved[p.Feature1] || resolved[p.Feature2] {
			continue
		}
		switch {
		case p.Feature1 == target:
			toDrop = append(toDrop, p.Feature2)
			resolved[p.Feature2] = true
		case p.Feature2 == target:
			toDrop = append(toDrop, p.Feature1)
			resolved[p.Feature1] = true
		case frequency[p.Feature1] >= frequency[p.Feature2]:
			toDrop = append(toDrop, p.Feature1)
			resolved[p.Feature1] = true
		default:
			toDrop = append(toDrop, p.Feature2)
			resolved[p.Feature2] = true
		}
	}
	return toDrop
}
