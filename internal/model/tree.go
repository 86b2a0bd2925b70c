package model

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a flattened decision tree. The root is node 0.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// DecisionTree classifies a vector by walking from the root: values <=
// threshold go left, others right, until a leaf is reached.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (dt *DecisionTree) validate(features int) error {
	if len(dt.Nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	for i, n := range dt.Nodes {
		if n.IsLeaf {
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= features {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.FeatureIdx)
		}
		// Children always come after their parent, which rules out cycles.
		if n.LeftChild <= i || n.LeftChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: invalid left child %d", i, n.LeftChild)
		}
		if n.RightChild <= i || n.RightChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: invalid right child %d", i, n.RightChild)
		}
	}
	return nil
}

// predictOne classifies a single vector.
func (dt *DecisionTree) predictOne(x []float64) (int, error) {
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx >= len(x) {
			return 0, errors.New("feature index out of range")
		}
		if x[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// Predict classifies every row.
func (dt *DecisionTree) Predict(rows [][]float64) ([]int, error) {
	codes := make([]int, len(rows))
	for i, row := range rows {
		c, err := dt.predictOne(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		codes[i] = c
	}
	return codes, nil
}

// Voting is a hard-voting ensemble of decision trees. Ties go to the lowest
// class code.
type Voting struct {
	Estimators []DecisionTree `json:"estimators"`
}

func (v *Voting) validate(features int) error {
	if len(v.Estimators) == 0 {
		return errors.New("voting classifier has no estimators")
	}
	for i := range v.Estimators {
		if err := v.Estimators[i].validate(features); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return nil
}

// Predict classifies every row by majority vote.
func (v *Voting) Predict(rows [][]float64) ([]int, error) {
	codes := make([]int, len(rows))
	for i, row := range rows {
		votes := make(map[int]int, len(v.Estimators))
		for j := range v.Estimators {
			c, err := v.Estimators[j].predictOne(row)
			if err != nil {
				return nil, fmt.Errorf("row %d, estimator %d: %w", i, j, err)
			}
			votes[c]++
		}
		codes[i] = majority(votes)
	}
	return codes, nil
}

func majority(votes map[int]int) int {
	best, bestCount := 0, -1
	for code, n := range votes {
		if n > bestCount || (n == bestCount && code < best) {
			best, bestCount = code, n
		}
	}
	return best
}
