// Package pipeline holds the feature-reduction stages run over a decoded
// dataset: missing-value analysis and correlation pruning.
package pipeline

import (
	"sort"

	"lophi/pkg/frame"
)

// FeatureMissing is one column's share of null rows.
type FeatureMissing struct {
	Name  string
	Ratio float64
}

// MissingRatios computes the null ratio of every column, sorted worst
// first.
func MissingRatios(series []*frame.Series) []FeatureMissing {
	out := make([]FeatureMissing, 0, len(series))
	for _, s := range series {
		var ratio float64
		if n := s.Len(); n > 0 {
			ratio = float64(s.NullCount()) / float64(n)
		}
		out = append(out, FeatureMissing{Name: s.Name(), Ratio: ratio})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio > out[j].Ratio })
	return out
}

// AboveThreshold returns the features whose missing ratio exceeds the
// threshold. The target column is never flagged.
func AboveThreshold(ratios []FeatureMissing, threshold float64, target string) []string {
	var names []string
	for _, r := range ratios {
		if r.Ratio > threshold && r.Name != target {
			names = append(names, r.Name)
		}
	}
	return names
}
