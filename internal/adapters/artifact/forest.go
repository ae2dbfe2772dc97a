// Package artifact loads tree-ensemble regression models exported from the
// training environment and evaluates them in-process.
//
// An artifact lists the feature names the forest was trained on, the output
// names, and each tree as a flat node array. A node with Left < 0 is a leaf;
// otherwise rows with x[Feature] <= Threshold go Left and the rest go Right.
// The prediction is the mean of the leaf values across trees.
package artifact

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/crewcast/internal/domain/feature"
)

// Node is one split or leaf of a tree.
type Node struct {
	Feature   int       `json:"feature" yaml:"feature"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	Left      int       `json:"left" yaml:"left"`
	Right     int       `json:"right" yaml:"right"`
	Value     []float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

func (n Node) leaf() bool { return n.Left < 0 }

// Tree is a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Forest is a multi-output regression forest.
type Forest struct {
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`
	FeatureNames []string `json:"feature_names" yaml:"feature_names"`
	OutputNames  []string `json:"output_names" yaml:"output_names"`
	Trees        []Tree   `json:"trees" yaml:"trees"`
}

// Kind implements runtime.Runtime.
func (f *Forest) Kind() string { return "forest" }

// Features returns the trained feature names.
func (f *Forest) Features() []string {
	out := make([]string, len(f.FeatureNames))
	copy(out, f.FeatureNames)
	return out
}

// Validate checks that the forest is well formed. Child indexes must point
// forward so every walk terminates.
func (f *Forest) Validate() error {
	if len(f.FeatureNames) == 0 {
		return fmt.Errorf("%w: no feature_names", ErrInvalidArtifact)
	}
	if len(f.OutputNames) == 0 {
		return fmt.Errorf("%w: no output_names", ErrInvalidArtifact)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidArtifact)
	}
	width := len(f.OutputNames)
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d has no nodes", ErrInvalidArtifact, ti)
		}
		for ni, n := range t.Nodes {
			if n.leaf() {
				if len(n.Value) != width {
					return fmt.Errorf("%w: tree %d leaf %d has %d values, want %d", ErrInvalidArtifact, ti, ni, len(n.Value), width)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= len(f.FeatureNames) {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d", ErrInvalidArtifact, ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has bad children %d/%d", ErrInvalidArtifact, ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// Predict implements runtime.Runtime. The table's columns must equal the
// trained feature names, same set and same order.
func (f *Forest) Predict(ctx context.Context, t *feature.Table) ([][]float64, error) {
	if err := f.checkColumns(t.Columns()); err != nil {
		return nil, err
	}
	x, err := t.Matrix()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("predict cancelled: %w", err)
		}
		out[i] = f.predictRow(row)
	}
	return out, nil
}

func (f *Forest) predictRow(x []float64) []float64 {
	sum := make([]float64, len(f.OutputNames))
	for _, t := range f.Trees {
		leaf := t.walk(x)
		for j, v := range leaf.Value {
			sum[j] += v
		}
	}
	n := float64(len(f.Trees))
	for j := range sum {
		sum[j] /= n
	}
	return sum
}

func (t Tree) walk(x []float64) Node {
	i := 0
	for {
		n := t.Nodes[i]
		if n.leaf() {
			return n
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (f *Forest) checkColumns(got []string) error {
	if slices.Equal(got, f.FeatureNames) {
		return nil
	}
	want := make(map[string]bool, len(f.FeatureNames))
	for _, c := range f.FeatureNames {
		want[c] = true
	}
	have := make(map[string]bool, len(got))
	for _, c := range got {
		have[c] = true
	}
	var missing, unexpected []string
	for _, c := range f.FeatureNames {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	for _, c := range got {
		if !want[c] {
			unexpected = append(unexpected, c)
		}
	}
	switch {
	case len(missing) > 0 || len(unexpected) > 0:
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing "+strings.Join(missing, ","))
		}
		if len(unexpected) > 0 {
			parts = append(parts, "unexpected "+strings.Join(unexpected, ","))
		}
		return fmt.Errorf("%w: %s", ErrFeatureMismatch, strings.Join(parts, "; "))
	default:
		return fmt.Errorf("%w: columns out of order, want %s", ErrFeatureMismatch, strings.Join(f.FeatureNames, ","))
	}
}
